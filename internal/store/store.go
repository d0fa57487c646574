package store

import (
	"errors"
	"fmt"
	"sync"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// Store is the single container of application state plus its transition
// function. The composition root owns it and hands out the pointer.
//
// Dispatch is the one logical thread of the application: it holds the lock
// for the whole reduce, persist and publish step, so no two actions
// interleave mid-transition.
type Store struct {
	mu    sync.Mutex
	state AppState
	repos repositories.Repositories
}

// New creates a Store in its initial (loading) state.
func New(repos repositories.Repositories) *Store {
	return &Store{
		state: InitialState(),
		repos: repos,
	}
}

// State returns a deep copy of the current state.
func (s *Store) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies action. The persistence write implied by the action is
// performed before the new state becomes visible; if it fails, the state is
// left as it was and the error is returned.
func (s *Store) Dispatch(action Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatchLocked(action)
}

// DispatchFunc builds an action from the current state and dispatches it in
// the same step. build runs under the store lock and must not call back into
// the Store. A nil action with a nil error dispatches nothing.
func (s *Store) DispatchFunc(build func(AppState) (Action, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	action, err := build(s.state.Clone())
	if err != nil {
		return err
	}
	if action == nil {
		return nil
	}
	return s.dispatchLocked(action)
}

// DispatchBatch builds a sequence of cart actions from the current state and
// applies them as one step: every action is reduced in order and the final
// cart is saved once. Either all of them take effect or none do. Actions
// other than ADD_TO_CART, REMOVE_FROM_CART, UPDATE_QUANTITY and CLEAR_CART
// are rejected.
func (s *Store) DispatchBatch(build func(AppState) ([]Action, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	actions, err := build(s.state.Clone())
	if err != nil {
		return err
	}
	if len(actions) == 0 {
		return nil
	}

	next := s.state
	for _, action := range actions {
		switch action.(type) {
		case AddToCart, RemoveFromCart, UpdateQuantity, ClearCart:
		default:
			return fmt.Errorf("%s cannot be batched", action.Type())
		}
		next = Reduce(next, action)
	}
	if err := s.repos.Cart.Save(next.Cart); err != nil {
		return fmt.Errorf("failed to persist cart batch of %d actions: %w", len(actions), err)
	}
	s.state = next
	return nil
}

func (s *Store) dispatchLocked(action Action) error {
	if _, ok := action.(InitApp); ok {
		snapshot, err := s.loadSnapshot()
		if err != nil {
			return fmt.Errorf("failed to load persisted state: %w", err)
		}
		action = snapshot
	}

	next := Reduce(s.state, action)
	if err := s.persist(action, next); err != nil {
		return fmt.Errorf("failed to persist %s: %w", action.Type(), err)
	}
	s.state = next
	return nil
}

func (s *Store) loadSnapshot() (InitApp, error) {
	var (
		snap InitApp
		err  error
	)
	if snap.Products, err = s.repos.Products.GetAll(); err != nil {
		return snap, err
	}
	if snap.Orders, err = s.repos.Orders.GetAll(); err != nil {
		return snap, err
	}
	if snap.Messages, err = s.repos.Messages.GetAll(); err != nil {
		return snap, err
	}
	if snap.Cart, err = s.repos.Cart.Get(); err != nil {
		return snap, err
	}
	return snap, nil
}

// persist writes what action changed. Missing records are ignored, matching
// the reducer's no-op semantics for unknown ids. Actions touching two tables
// undo the first write when the second fails, so storage never runs ahead of
// the state. s.state still holds the previous state here.
func (s *Store) persist(action Action, next AppState) error {
	switch a := action.(type) {
	case AddToCart, RemoveFromCart, UpdateQuantity, ClearCart, Logout:
		return s.repos.Cart.Save(next.Cart)

	case AddProduct:
		return s.repos.Products.Create(&a.Product)

	case UpdateProduct:
		return ignoreNotFound(s.repos.Products.Update(&a.Product))

	case DeleteProduct:
		if err := s.repos.Cart.Save(next.Cart); err != nil {
			return err
		}
		if err := ignoreNotFound(s.repos.Products.Delete(a.ID)); err != nil {
			return withUndo(err, s.repos.Cart.Save(s.state.Cart))
		}
		return nil

	case UpdateOrderStatus:
		return ignoreNotFound(s.repos.Orders.UpdateStatus(a.OrderID, a.Status))

	case PlaceOrder:
		if err := s.repos.Cart.Save(next.Cart); err != nil {
			return err
		}
		order := next.Orders[0]
		if err := s.repos.Orders.Create(&order); err != nil {
			return withUndo(err, s.repos.Cart.Save(s.state.Cart))
		}
		return nil

	case SendMessage:
		return s.repos.Messages.Append(&a.Message)

	case UpdateUser:
		if next.User == nil || s.state.User == nil {
			return nil
		}
		if _, err := s.repos.Users.Update(next.User.ID, a.Patch); err != nil {
			return ignoreNotFound(err)
		}
		if err := s.refreshSession(*next.User); err != nil {
			_, undo := s.repos.Users.Update(next.User.ID, restorePatch(*s.state.User))
			return withUndo(err, undo)
		}
		return nil
	}
	return nil
}

// restorePatch overwrites every editable profile field with u's values.
func restorePatch(u models.User) models.UserPatch {
	return models.UserPatch{Name: &u.Name, Email: &u.Email, Phone: &u.Phone, Address: &u.Address, Avatar: &u.Avatar}
}

func withUndo(err, undoErr error) error {
	if undoErr != nil {
		return fmt.Errorf("%w (rollback failed: %v)", err, undoErr)
	}
	return err
}

// refreshSession keeps the persisted session's user in step with profile
// edits so a restored session shows the current profile.
func (s *Store) refreshSession(u models.User) error {
	sess, err := s.repos.Session.Get()
	if err != nil {
		if errors.Is(err, repositories.ErrKeyNotFound) {
			return nil
		}
		return err
	}
	if sess.User.ID != u.ID {
		return nil
	}
	sess.User = u
	return s.repos.Session.Save(sess)
}

func ignoreNotFound(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	return err
}
