package service

import (
	"context"
	"fmt"

	"github.com/rl1809/techmart/internal/core/domain"
)

type Action string

const (
	ActionActivate Action = "activate"
	ActionDismiss  Action = "dismiss"
	ActionInput    Action = "input"
	ActionBlur     Action = "blur"
	ActionInsert   Action = "insert"
)

type EventKind string

const (
	EventKey    EventKind = "key"
	EventInput  EventKind = "input"
	EventBlur   EventKind = "blur"
	EventInsert EventKind = "insert"
)

// Classes whose elements respond to Enter and Space like a click.
var activatableClasses = []string{"add-to-cart", "cta-button", "category-link"}

type Event struct {
	Kind   EventKind        `json:"kind"`
	Key    string           `json:"key,omitempty"`
	Value  string           `json:"value,omitempty"`
	Target domain.Element   `json:"target"`
	Nodes  []domain.Element `json:"nodes,omitempty"`
}

type DispatchResult struct {
	Action    Action              `json:"action,omitempty"`
	Handled   bool                `json:"handled"`
	Navigate  string              `json:"navigate,omitempty"`
	CartCount *int                `json:"cart_count,omitempty"`
	Field     *domain.FieldResult `json:"field,omitempty"`
}

type ActionHandler func(ctx context.Context, session *Session, ev Event) (DispatchResult, error)

// InputDispatcher maps raw page events to semantic actions and runs the handler bound to each.
type InputDispatcher struct {
	actions    map[Action]ActionHandler
	activators map[string]ActionHandler
}

func NewInputDispatcher() *InputDispatcher {
	return &InputDispatcher{
		actions:    make(map[Action]ActionHandler),
		activators: make(map[string]ActionHandler),
	}
}

func (d *InputDispatcher) Handle(action Action, h ActionHandler) {
	d.actions[action] = h
}

// Activate binds the primary action of elements carrying class.
func (d *InputDispatcher) Activate(class string, h ActionHandler) {
	d.activators[class] = h
}

// Resolve names the action an event stands for; false means the event is ignored.
func (d *InputDispatcher) Resolve(ev Event) (Action, bool) {
	switch ev.Kind {
	case EventKey:
		switch ev.Key {
		case domain.KeyEnter, domain.KeySpace:
			if activatableClass(ev.Target) != "" {
				return ActionActivate, true
			}
		case domain.KeyEscape:
			return ActionDismiss, true
		}
		return "", false
	case EventInput:
		return ActionInput, true
	case EventBlur:
		return ActionBlur, true
	case EventInsert:
		return ActionInsert, true
	}
	return "", false
}

func (d *InputDispatcher) Dispatch(ctx context.Context, session *Session, ev Event) (DispatchResult, error) {
	action, ok := d.Resolve(ev)
	if !ok {
		return DispatchResult{}, nil
	}

	h := d.actions[action]
	if action == ActionActivate {
		h = d.activators[activatableClass(ev.Target)]
	}
	if h == nil {
		return DispatchResult{Action: action}, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	result, err := h(ctx, session, ev)
	result.Action = action
	if err == nil {
		result.Handled = true
	}
	return result, err
}

func activatableClass(e domain.Element) string {
	for _, class := range activatableClasses {
		if e.HasClass(class) {
			return class
		}
	}
	return ""
}

// focusTarget finds the element to focus after nodes were inserted: the first
// focusable descendant of the first inserted node.
func focusTarget(nodes []domain.Element) (domain.Element, bool) {
	if len(nodes) == 0 {
		return domain.Element{}, false
	}
	return nodes[0].FirstFocusableDescendant()
}
