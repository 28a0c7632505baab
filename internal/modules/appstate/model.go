package appstate

import "time"

// CartLine is a single product line in the shopping cart.
type CartLine struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Stock    int     `json:"stock,omitempty"` // 0 = cap unknown (unbounded)
	Size     string  `json:"size,omitempty"`
	ImageURL string  `json:"image_url,omitempty"`
}

// WishlistEntry is a product snapshot saved to the wishlist, unique by ID.
type WishlistEntry struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url,omitempty"`
}

// ToastType classifies a transient user notification.
type ToastType string

const (
	ToastInfo    ToastType = "info"
	ToastSuccess ToastType = "success"
	ToastError   ToastType = "error"
	ToastWarning ToastType = "warning"
)

// Toast is a transient, self-expiring user message.
type Toast struct {
	ID       string        `json:"id"`
	Message  string        `json:"message"`
	Type     ToastType     `json:"type"`
	Duration time.Duration `json:"duration"`
	Exiting  bool          `json:"exiting"`
}

// Identity mirrors the authenticated user as reported by the auth module.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
}

// LoginTab selects which pane of the login panel is active.
type LoginTab string

const (
	TabLogin    LoginTab = "login"
	TabRegister LoginTab = "register"
)

// State is one immutable snapshot of the session's cart, wishlist and UI
// state. Reduce never mutates a State in place; every transition copies.
type State struct {
	SearchOpen     bool `json:"search_open"`
	LoginOpen      bool `json:"login_open"`
	CartOpen       bool `json:"cart_open"`
	MobileMenuOpen bool `json:"mobile_menu_open"`

	LoginTab    LoginTab `json:"login_tab"`
	SearchQuery string   `json:"search_query"`
	Loading     bool     `json:"loading"`

	CartItems []CartLine      `json:"cart_items"`
	Wishlist  []WishlistEntry `json:"wishlist"`
	Toasts    []Toast         `json:"toasts"`

	Identity *Identity `json:"identity,omitempty"`
}

// NewState returns the initial session state.
func NewState() State {
	return State{LoginTab: TabLogin}
}

// CartTotal is the sum of price x quantity over all cart lines.
func (s State) CartTotal() float64 {
	var total float64
	for _, line := range s.CartItems {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

// CartCount is the total number of units in the cart.
func (s State) CartCount() int {
	var count int
	for _, line := range s.CartItems {
		count += line.Quantity
	}
	return count
}

// WishlistCount is the number of saved wishlist entries.
func (s State) WishlistCount() int { return len(s.Wishlist) }

// InWishlist reports whether the product is currently wishlisted.
func (s State) InWishlist(productID string) bool {
	for _, entry := range s.Wishlist {
		if entry.ID == productID {
			return true
		}
	}
	return false
}
