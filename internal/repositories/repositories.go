package repositories

// Repositories groups the table repositories that share one KVStore.
type Repositories struct {
	Products ProductRepository
	Orders   OrderRepository
	Users    UserRepository
	Messages MessageRepository
	Cart     CartRepository
	Session  SessionRepository
}

// NewKVRepositories builds every table repository on top of kv.
func NewKVRepositories(kv KVStore) Repositories {
	return Repositories{
		Products: NewKVProductRepository(kv),
		Orders:   NewKVOrderRepository(kv),
		Users:    NewKVUserRepository(kv),
		Messages: NewKVMessageRepository(kv),
		Cart:     NewKVCartRepository(kv),
		Session:  NewKVSessionRepository(kv),
	}
}
