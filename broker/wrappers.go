package broker

import (
	"context"

	"github.com/mcmanyika/Musika/realtime"
)

// ChangeRelay forwards hub changes to the other instances over STOMP.
type ChangeRelay struct{}

func (ChangeRelay) Forward(ctx context.Context, c realtime.Change) error {
	return SendChange(c)
}

func SendChange(c realtime.Change) error {
	return sendReliable(ChangesTopic, c)
}
