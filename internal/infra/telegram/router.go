// internal/infra/telegram/router.go
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"hatani_admin_bot/internal/domain/selection"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// Callback is a parsed inline-button payload of the form
// "namespace:action[:subject[:extra]]". Subject is the applicant or target
// user id when present.
type Callback struct {
	Namespace string
	Action    string
	Subject   int64
	Extra     string
	Raw       string
}

// CallbackHandler processes one routed callback press.
type CallbackHandler func(c telebot.Context, cb Callback) error

// anyState is the wildcard for routes that do not care about workflow state.
const anyState = selection.State("")

type route struct {
	namespace string
	action    string
	state     selection.State
	handler   CallbackHandler
}

// CallbackRouter dispatches inline-button presses by (namespace, action) and
// the presser's current workflow state. State-specific routes win over
// wildcard ones, so the same button can mean different things mid-workflow.
type CallbackRouter struct {
	ctx      context.Context
	routes   []route
	sessions selection.SessionStore
	logger   *logrus.Entry
}

func NewCallbackRouter(ctx context.Context, sessions selection.SessionStore, logger *logrus.Entry) *CallbackRouter {
	return &CallbackRouter{ctx: ctx, sessions: sessions, logger: logger}
}

// Handle registers a route. Pass anyState ("") for state-independent routes.
func (r *CallbackRouter) Handle(namespace, action string, state selection.State, h CallbackHandler) {
	r.routes = append(r.routes, route{namespace: namespace, action: action, state: state, handler: h})
}

func parseCallback(data string) (Callback, error) {
	parts := strings.Split(data, ":")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Callback{}, fmt.Errorf("malformed callback data: %q", data)
	}
	cb := Callback{Namespace: parts[0], Action: parts[1], Raw: data}
	if len(parts) >= 3 {
		subject, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return Callback{}, fmt.Errorf("malformed callback subject in %q: %w", data, err)
		}
		cb.Subject = subject
	}
	if len(parts) >= 4 {
		cb.Extra = strings.Join(parts[3:], ":")
	}
	return cb, nil
}

// Dispatch is installed as the single telebot.OnCallback handler.
func (r *CallbackRouter) Dispatch(c telebot.Context) error {
	data := strings.TrimSpace(strings.TrimPrefix(c.Callback().Data, "\f"))

	cb, err := parseCallback(data)
	if err != nil {
		r.logger.WithError(err).Warn("unroutable callback")
		return c.Respond(&telebot.CallbackResponse{Text: "Неизвестное действие."})
	}

	var state selection.State
	sess, err := r.sessions.Get(r.ctx, c.Sender().ID)
	if err != nil {
		r.logger.WithError(err).WithField("user_id", c.Sender().ID).Error("session lookup failed during dispatch")
	}
	if sess != nil {
		state = sess.State
	}

	for _, rt := range r.routes {
		if rt.state != anyState && rt.namespace == cb.Namespace && rt.action == cb.Action && rt.state == state {
			return rt.handler(c, cb)
		}
	}
	for _, rt := range r.routes {
		if rt.state == anyState && rt.namespace == cb.Namespace && rt.action == cb.Action {
			return rt.handler(c, cb)
		}
	}

	r.logger.WithFields(logrus.Fields{"data": data, "state": state, "user_id": c.Sender().ID}).Warn("no route for callback")
	return c.Respond(&telebot.CallbackResponse{Text: "Неизвестное действие."})
}
