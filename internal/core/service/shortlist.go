package service

import (
	"fmt"

	"github.com/rl1809/techmart/internal/core/domain"
)

// ShortlistService keeps the wishlist marks and the compare set of a page session.
// Both are keyed by product id and reset on reload.
type ShortlistService struct {
	notifier Notifier
}

func NewShortlistService(notifier Notifier) *ShortlistService {
	return &ShortlistService{notifier: notifier}
}

// ToggleWishlist reports whether the product is wishlisted after the toggle.
func (s *ShortlistService) ToggleWishlist(session *Session, p domain.Product) bool {
	if session.toggleWishlist(p.ID) {
		s.notifier.Notify(session.ID, fmt.Sprintf("%s added to wishlist!", p.Name), domain.NotificationSuccess)
		return true
	}
	s.notifier.Notify(session.ID, fmt.Sprintf("%s removed from wishlist", p.Name), domain.NotificationInfo)
	return false
}

// ToggleCompare adds or removes the product. A fourth product is refused with
// ErrCompareFull and the set stays as it was.
func (s *ShortlistService) ToggleCompare(session *Session, p domain.Product) (CompareButton, error) {
	added, inserted, err := session.toggleCompare(p)
	if err != nil {
		s.notifier.Notify(session.ID, "You can only compare up to 3 products", domain.NotificationWarning)
		return s.compareButton(session), err
	}

	if added {
		s.notifier.Notify(session.ID, fmt.Sprintf("%s added to comparison", p.Name), domain.NotificationSuccess)
	} else {
		s.notifier.Notify(session.ID, fmt.Sprintf("%s removed from comparison", p.Name), domain.NotificationInfo)
	}

	button := s.compareButton(session)
	if inserted {
		session.observeInserted([]domain.Element{compareButtonElement(button.Label)})
	}
	return button, nil
}

func (s *ShortlistService) compareButton(session *Session) CompareButton {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.compareButtonLocked()
}

func (s *ShortlistService) OpenComparison(session *Session) {
	s.notifier.Notify(session.ID, "Product comparison feature coming soon!", domain.NotificationInfo)
}

func (s *ShortlistService) OpenLiveChat(session *Session) {
	s.notifier.Notify(session.ID, "Live chat feature coming soon!", domain.NotificationInfo)
}
