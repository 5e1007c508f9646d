package service

import (
	"context"
)

type Sound string

const (
	SoundNewRequest Sound = "notification_request.mp3"
	SoundNewMessage Sound = "notification.mp3"
)

// SoundFor maps an alert category to the sound to play. The second result is
// false when the category raises no sound.
func SoundFor(category AlertCategory) (Sound, bool) {
	switch category {
	case AlertRequest:
		return SoundNewRequest, true
	case AlertMessage:
		return SoundNewMessage, true
	default:
		return "", false
	}
}

// Player plays a sound on the observing user's device. Playback may be refused
// by the device, which surfaces as an error.
type Player interface {
	PlaySound(ctx context.Context, sound Sound) error
}

// Alert plays at most one sound for the transition. A refused playback is
// returned so the caller can log it; it must not stop the badge update.
func Alert(ctx context.Context, player Player, t Transition) (Sound, error) {
	sound, ok := SoundFor(t.Category)
	if !ok {
		return "", nil
	}
	return sound, player.PlaySound(ctx, sound)
}
