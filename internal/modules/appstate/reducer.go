package appstate

// Reduce computes the next state from the current state and an action.
// It is pure and total: the same inputs always produce the same output,
// slices are copied rather than mutated, and a nil or unrecognised action
// returns the input state unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case ToggleSearch:
		s.SearchOpen = !s.SearchOpen
		return s

	case ToggleLogin:
		s.LoginOpen = !s.LoginOpen
		return s

	case ToggleCart:
		s.CartOpen = !s.CartOpen
		return s

	case ToggleMobileMenu:
		s.MobileMenuOpen = !s.MobileMenuOpen
		return s

	case SetLoginTab:
		s.LoginTab = a.Tab
		return s

	case SetSearchQuery:
		s.SearchQuery = a.Query
		return s

	case SetLoading:
		s.Loading = a.Loading
		return s

	case AddToCart:
		return addToCart(s, a)

	case UpdateQuantity:
		return updateQuantity(s, a)

	case RemoveFromCart:
		s.CartItems = removeLine(s.CartItems, a.ID)
		return s

	case ClearCart:
		s.CartItems = nil
		return s

	case ToggleWishlist:
		return toggleWishlist(s, a.Entry)

	case PushToast:
		s.Toasts = append(copyToasts(s.Toasts), a.Toast)
		return s

	case MarkToastExiting:
		toasts := copyToasts(s.Toasts)
		for i := range toasts {
			if toasts[i].ID == a.ID {
				toasts[i].Exiting = true
			}
		}
		s.Toasts = toasts
		return s

	case RemoveToast:
		toasts := make([]Toast, 0, len(s.Toasts))
		for _, t := range s.Toasts {
			if t.ID != a.ID {
				toasts = append(toasts, t)
			}
		}
		s.Toasts = toasts
		return s

	case SetIdentity:
		s.Identity = a.Identity
		return s

	case Logout:
		s.Identity = nil
		s.CartItems = nil
		s.Wishlist = nil
		return s
	}

	// Unknown actions are a deliberate no-op, never an error.
	return s
}

func addToCart(s State, a AddToCart) State {
	qty := a.Quantity
	if qty <= 0 {
		qty = 1
	}

	items := copyLines(s.CartItems)
	for i := range items {
		if items[i].ID != a.Item.ID {
			continue
		}
		// Adopt the cap if this add supplies one we did not have.
		if items[i].Stock == 0 && a.Item.Stock > 0 {
			items[i].Stock = a.Item.Stock
		}
		items[i].Quantity = clampQuantity(items[i].Quantity+qty, items[i].Stock)
		s.CartItems = items
		return s
	}

	line := a.Item
	line.Quantity = clampQuantity(qty, line.Stock)
	s.CartItems = append(items, line)
	return s
}

func updateQuantity(s State, a UpdateQuantity) State {
	items := copyLines(s.CartItems)
	for i := range items {
		if items[i].ID == a.ID {
			items[i].Quantity = clampQuantity(items[i].Quantity+a.Delta, items[i].Stock)
		}
	}
	s.CartItems = items
	return s
}

func toggleWishlist(s State, entry WishlistEntry) State {
	for i, existing := range s.Wishlist {
		if existing.ID == entry.ID {
			next := make([]WishlistEntry, 0, len(s.Wishlist)-1)
			next = append(next, s.Wishlist[:i]...)
			next = append(next, s.Wishlist[i+1:]...)
			s.Wishlist = next
			return s
		}
	}
	next := make([]WishlistEntry, len(s.Wishlist), len(s.Wishlist)+1)
	copy(next, s.Wishlist)
	s.Wishlist = append(next, entry)
	return s
}

// clampQuantity keeps a quantity within [1, cap]. cap 0 means the stock cap
// is unknown and the quantity is only floored.
func clampQuantity(q, cap int) int {
	if q < 1 {
		return 1
	}
	if cap > 0 && q > cap {
		return cap
	}
	return q
}

func removeLine(lines []CartLine, id string) []CartLine {
	next := make([]CartLine, 0, len(lines))
	for _, line := range lines {
		if line.ID != id {
			next = append(next, line)
		}
	}
	return next
}

func copyLines(lines []CartLine) []CartLine {
	next := make([]CartLine, len(lines))
	copy(next, lines)
	return next
}

func copyToasts(toasts []Toast) []Toast {
	next := make([]Toast, len(toasts))
	copy(next, toasts)
	return next
}
