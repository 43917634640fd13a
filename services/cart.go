package services

import (
	"errors"
	"sync"

	"github.com/amirfagh/justeat/entity"
)

// CartOption is an option the user switched on for one cart line.
type CartOption struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	AdditionalPrice string `json:"additionalprice"`
	Selected        bool   `json:"selected"`
}

// CartLine is a value copy of a menu item; it has no identity besides its position.
type CartLine struct {
	MenuItemID    string       `json:"menuItemId"`
	Name          string       `json:"name"`
	NameLocalized string       `json:"namea"`
	Price         string       `json:"price"`
	Photo         string       `json:"photo"`
	Category      string       `json:"category"`
	Options       []CartOption `json:"options"`
}

func (l CartLine) clone() CartLine {
	l.Options = append([]CartOption(nil), l.Options...)
	return l
}

// Cart is one session's cart. It is safe for concurrent use.
//
// While an order is being placed from it the cart is locked: edits fail with
// ErrCartBusy until Finish, so nothing added meanwhile is lost by the clear.
type Cart struct {
	mu       sync.Mutex
	lines    []CartLine
	busy     bool
	detached bool // evicted from the store; callers must fetch a fresh cart
}

// errCartDetached never leaves this package; CartStore.Edit retries on it.
var errCartDetached = errors.New("cart was evicted")

func (c *Cart) editable() error {
	if c.detached {
		return errCartDetached
	}
	if c.busy {
		return ErrCartBusy
	}
	return nil
}

func (c *Cart) Add(line CartLine) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return err
	}
	c.lines = append(c.lines, line.clone())
	return nil
}

func (c *Cart) Replace(index int, line CartLine) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return err
	}
	if index < 0 || index >= len(c.lines) {
		return ErrCartLineIndex
	}
	c.lines[index] = line.clone()
	return nil
}

func (c *Cart) Remove(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return err
	}
	if index < 0 || index >= len(c.lines) {
		return ErrCartLineIndex
	}
	c.lines = append(c.lines[:index:index], c.lines[index+1:]...)
	return nil
}

func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return err
	}
	c.lines = nil
	return nil
}

// Begin locks the cart for checkout and returns the lines being submitted.
func (c *Cart) Begin() ([]CartLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detached {
		return nil, errCartDetached
	}
	if c.busy {
		return nil, ErrSubmissionInFlight
	}
	if len(c.lines) == 0 {
		return nil, ErrCartEmpty
	}
	c.busy = true
	return c.copyLines(), nil
}

// Finish unlocks the cart. placed empties it; otherwise the lines stay for a retry.
func (c *Cart) Finish(placed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	if placed {
		c.lines = nil
	}
}

// Lines returns a copy; callers may keep it across later cart edits.
func (c *Cart) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyLines()
}

func (c *Cart) copyLines() []CartLine {
	out := make([]CartLine, len(c.lines))
	for i, l := range c.lines {
		out[i] = l.clone()
	}
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// CartStore owns the carts of all live sessions, keyed by user uid.
// Empty carts are evicted by Prune.
type CartStore struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]*Cart)}
}

// For returns the cart of uid, creating an empty one on first use.
func (s *CartStore) For(uid string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[uid]
	if !ok {
		c = &Cart{}
		s.carts[uid] = c
	}
	return c
}

// Edit runs fn on the cart of uid, again on a fresh cart if Prune evicted it in between.
func (s *CartStore) Edit(uid string, fn func(c *Cart) error) error {
	for {
		err := fn(s.For(uid))
		if !errors.Is(err, errCartDetached) {
			return err
		}
	}
}

// Peek returns the lines of uid without creating a cart.
func (s *CartStore) Peek(uid string) []CartLine {
	s.mu.Lock()
	c, ok := s.carts[uid]
	s.mu.Unlock()
	if !ok {
		return []CartLine{}
	}
	return c.Lines()
}

// Prune drops the cart of uid when it is empty and not being checked out.
func (s *CartStore) Prune(uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[uid]
	if !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.lines) == 0 && !c.busy {
		c.detached = true
		delete(s.carts, uid)
	}
}

// Size is the number of carts held.
func (s *CartStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}

// snapshot turns a cart line into the immutable order line stored with the order.
func snapshot(l CartLine) entity.OrderLine {
	line := entity.OrderLine{
		Name:          orDefault(l.Name, "Unknown Name"),
		NameLocalized: orDefault(l.NameLocalized, "Unknown Name (Arabic)"),
		Price:         orDefault(l.Price, "0"),
		Photo:         l.Photo,
		Category:      orDefault(l.Category, "Unknown Category"),
		Options:       make([]entity.OrderLineOption, 0, len(l.Options)),
	}
	for _, o := range l.Options {
		line.Options = append(line.Options, entity.OrderLineOption{
			Name:            orDefault(o.Name, "Unknown Option"),
			AdditionalPrice: orDefault(o.AdditionalPrice, "0"),
			Selected:        o.Selected,
		})
	}
	return line
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
