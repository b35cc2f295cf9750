package eventbus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yamato-denko/koutei/pkg/eventbus"
)

type orderChanged struct {
	ID string
}

func TestPublish_DispatchesToMatchingHandler(t *testing.T) {
	bus := eventbus.NewEventPublisher(nil)

	var got []string
	bus.Subscribe(func(ev *orderChanged) {
		got = append(got, ev.ID)
	})

	bus.Publish(&orderChanged{ID: "a"})
	bus.Publish(&orderChanged{ID: "b"})

	require.Equal(t, []string{"a", "b"}, got)
}

func TestPublish_SkipsNonMatchingHandler(t *testing.T) {
	bus := eventbus.NewEventPublisher(nil)

	called := false
	bus.Subscribe(func(s string) { called = true })

	bus.Publish(&orderChanged{ID: "a"})
	assert.False(t, called)
}

func TestPublish_RecoversPanickingHandler(t *testing.T) {
	bus := eventbus.NewEventPublisher(nil)

	var secondCalled bool
	bus.Subscribe(func(ev *orderChanged) { panic("boom") })
	bus.Subscribe(func(ev *orderChanged) { secondCalled = true })

	require.NotPanics(t, func() {
		bus.Publish(&orderChanged{ID: "a"})
	})
	assert.True(t, secondCalled)
}

func TestUnsubscribe(t *testing.T) {
	bus := eventbus.NewEventPublisher(nil)

	handler := func(ev *orderChanged) {}
	bus.Subscribe(handler)
	require.Equal(t, 1, bus.SubscribersCount())

	bus.Unsubscribe(handler)
	assert.Equal(t, 0, bus.SubscribersCount())
}

func TestMatchSignature(t *testing.T) {
	assert.True(t, eventbus.MatchSignature(func(*orderChanged) {}, []interface{}{&orderChanged{}}))
	assert.False(t, eventbus.MatchSignature(func(*orderChanged) {}, []interface{}{"nope"}))
	assert.False(t, eventbus.MatchSignature("not a func", []interface{}{&orderChanged{}}))
	assert.False(t, eventbus.MatchSignature(func(a, b *orderChanged) {}, []interface{}{&orderChanged{}}))
}
