package store

import "storefront/internal/models"

// ActionType tags an Action.
type ActionType string

const (
	ActionInitApp           ActionType = "INIT_APP"
	ActionAddToCart         ActionType = "ADD_TO_CART"
	ActionRemoveFromCart    ActionType = "REMOVE_FROM_CART"
	ActionUpdateQuantity    ActionType = "UPDATE_QUANTITY"
	ActionClearCart         ActionType = "CLEAR_CART"
	ActionLoginSuccess      ActionType = "LOGIN_SUCCESS"
	ActionLogout            ActionType = "LOGOUT"
	ActionUpdateUser        ActionType = "UPDATE_USER"
	ActionSetLoading        ActionType = "SET_LOADING"
	ActionAddProduct        ActionType = "ADD_PRODUCT"
	ActionUpdateProduct     ActionType = "UPDATE_PRODUCT"
	ActionDeleteProduct     ActionType = "DELETE_PRODUCT"
	ActionUpdateOrderStatus ActionType = "UPDATE_ORDER_STATUS"
	ActionPlaceOrder        ActionType = "PLACE_ORDER"
	ActionSendMessage       ActionType = "SEND_MESSAGE"
)

// Action is an immutable command describing an intended state change.
type Action interface {
	Type() ActionType
}

// InitApp loads the persisted tables. Dispatch it empty; Store.Dispatch
// fills the snapshot fields from storage before reducing.
type InitApp struct {
	Products []models.Product
	Orders   []models.Order
	Messages []models.Message
	Cart     []models.CartItem
}

type AddToCart struct {
	Product models.Product
}

type RemoveFromCart struct {
	ID int
}

type UpdateQuantity struct {
	ID       int
	Quantity int
}

type ClearCart struct{}

type LoginSuccess struct {
	User  models.User
	Token string
}

type Logout struct{}

type UpdateUser struct {
	Patch models.UserPatch
}

type SetLoading struct {
	Loading bool
}

type AddProduct struct {
	Product models.Product
}

type UpdateProduct struct {
	Product models.Product
}

type DeleteProduct struct {
	ID int
}

type UpdateOrderStatus struct {
	OrderID string
	Status  models.OrderStatus
}

type PlaceOrder struct {
	Order models.Order
}

type SendMessage struct {
	Message models.Message
}

func (InitApp) Type() ActionType           { return ActionInitApp }
func (AddToCart) Type() ActionType         { return ActionAddToCart }
func (RemoveFromCart) Type() ActionType    { return ActionRemoveFromCart }
func (UpdateQuantity) Type() ActionType    { return ActionUpdateQuantity }
func (ClearCart) Type() ActionType         { return ActionClearCart }
func (LoginSuccess) Type() ActionType      { return ActionLoginSuccess }
func (Logout) Type() ActionType            { return ActionLogout }
func (UpdateUser) Type() ActionType        { return ActionUpdateUser }
func (SetLoading) Type() ActionType        { return ActionSetLoading }
func (AddProduct) Type() ActionType        { return ActionAddProduct }
func (UpdateProduct) Type() ActionType     { return ActionUpdateProduct }
func (DeleteProduct) Type() ActionType     { return ActionDeleteProduct }
func (UpdateOrderStatus) Type() ActionType { return ActionUpdateOrderStatus }
func (PlaceOrder) Type() ActionType        { return ActionPlaceOrder }
func (SendMessage) Type() ActionType       { return ActionSendMessage }
