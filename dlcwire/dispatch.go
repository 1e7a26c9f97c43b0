package dlcwire

import (
	"context"
	"fmt"
)

// Handler is implemented by the component that acts on decoded sub-channel
// messages, with one method per message kind.
type Handler interface {
	HandleSubChannelOffer(ctx context.Context, msg *SubChannelOffer) error

	HandleSubChannelAccept(ctx context.Context, msg *SubChannelAccept) error

	HandleSubChannelConfirm(ctx context.Context,
		msg *SubChannelConfirm) error

	HandleSubChannelFinalize(ctx context.Context,
		msg *SubChannelFinalize) error

	HandleSubChannelCloseOffer(ctx context.Context,
		msg *SubChannelCloseOffer) error

	HandleSubChannelCloseAccept(ctx context.Context,
		msg *SubChannelCloseAccept) error

	HandleSubChannelCloseConfirm(ctx context.Context,
		msg *SubChannelCloseConfirm) error

	HandleSubChannelCloseFinalize(ctx context.Context,
		msg *SubChannelCloseFinalize) error

	HandleSubChannelCloseReject(ctx context.Context,
		msg *SubChannelCloseReject) error
}

// Dispatch routes the message to the matching method of the handler.
func Dispatch(ctx context.Context, msg Message, h Handler) error {
	switch m := msg.(type) {
	case *SubChannelOffer:
		return h.HandleSubChannelOffer(ctx, m)

	case *SubChannelAccept:
		return h.HandleSubChannelAccept(ctx, m)

	case *SubChannelConfirm:
		return h.HandleSubChannelConfirm(ctx, m)

	case *SubChannelFinalize:
		return h.HandleSubChannelFinalize(ctx, m)

	case *SubChannelCloseOffer:
		return h.HandleSubChannelCloseOffer(ctx, m)

	case *SubChannelCloseAccept:
		return h.HandleSubChannelCloseAccept(ctx, m)

	case *SubChannelCloseConfirm:
		return h.HandleSubChannelCloseConfirm(ctx, m)

	case *SubChannelCloseFinalize:
		return h.HandleSubChannelCloseFinalize(ctx, m)

	case *SubChannelCloseReject:
		return h.HandleSubChannelCloseReject(ctx, m)

	default:
		return fmt.Errorf("unable to dispatch message of type %T", msg)
	}
}
