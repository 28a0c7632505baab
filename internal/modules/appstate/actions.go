package appstate

// Action is the closed set of state transitions understood by Reduce.
// The unexported marker keeps the union closed to this package, so adding
// an action means extending the type switch in Reduce.
type Action interface{ isAction() }

// ── panel / UI actions ────────────────────────────────────────────────────────

// ToggleSearch flips the search panel open/closed.
type ToggleSearch struct{}

// ToggleLogin flips the login panel open/closed.
type ToggleLogin struct{}

// ToggleCart flips the cart sidebar open/closed.
type ToggleCart struct{}

// ToggleMobileMenu flips the mobile menu open/closed.
type ToggleMobileMenu struct{}

// SetLoginTab selects the login or register pane.
type SetLoginTab struct{ Tab LoginTab }

// SetSearchQuery records the current search input.
type SetSearchQuery struct{ Query string }

// SetLoading flips the global loading indicator.
type SetLoading struct{ Loading bool }

// ── cart actions ─────────────────────────────────────────────────────────────

// AddToCart adds Quantity units of Item, merging into an existing line with
// the same ID. Quantity <= 0 is treated as 1.
type AddToCart struct {
	Item     CartLine
	Quantity int
}

// UpdateQuantity applies a signed delta to an existing line's quantity.
type UpdateQuantity struct {
	ID    string
	Delta int
}

// RemoveFromCart deletes a line by product ID.
type RemoveFromCart struct{ ID string }

// ClearCart empties the cart.
type ClearCart struct{}

// ── wishlist actions ─────────────────────────────────────────────────────────

// ToggleWishlist inverts membership: present entries are removed, absent
// entries appended.
type ToggleWishlist struct{ Entry WishlistEntry }

// ── toast actions ────────────────────────────────────────────────────────────

// PushToast appends a toast to the queue.
type PushToast struct{ Toast Toast }

// MarkToastExiting flags a toast as leaving (exit animation phase).
type MarkToastExiting struct{ ID string }

// RemoveToast drops a toast by ID. Removing an absent ID is a no-op.
type RemoveToast struct{ ID string }

// ── identity actions ─────────────────────────────────────────────────────────

// SetIdentity mirrors the external auth session into local state.
type SetIdentity struct{ Identity *Identity }

// Logout clears identity, cart and wishlist in one transition.
type Logout struct{}

func (ToggleSearch) isAction()     {}
func (ToggleLogin) isAction()      {}
func (ToggleCart) isAction()       {}
func (ToggleMobileMenu) isAction() {}
func (SetLoginTab) isAction()      {}
func (SetSearchQuery) isAction()   {}
func (SetLoading) isAction()       {}
func (AddToCart) isAction()        {}
func (UpdateQuantity) isAction()   {}
func (RemoveFromCart) isAction()   {}
func (ClearCart) isAction()        {}
func (ToggleWishlist) isAction()   {}
func (PushToast) isAction()        {}
func (MarkToastExiting) isAction() {}
func (RemoveToast) isAction()      {}
func (SetIdentity) isAction()      {}
func (Logout) isAction()           {}
