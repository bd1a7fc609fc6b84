package services

import (
	"errors"

	"go.uber.org/zap"
)

var (
	ErrPermissionDenied = errors.New("screen capture permission denied")
	ErrNotSupported     = errors.New("screen capture not supported")
)

// LiveService is the placeholder behind the live affordances. Screen share,
// waiting-room video and spectating have no real transport in this scope;
// capture always fails with one of the two contract errors.
type LiveService struct {
	lifecycle *Lifecycle
	logger    *zap.Logger
}

func NewLiveService(lifecycle *Lifecycle, logger *zap.Logger) *LiveService {
	return &LiveService{lifecycle: lifecycle, logger: logger}
}

// RequestCapture answers the capture-local-video-stream contract. Rooms not
// flagged live cannot capture at all; live rooms fail on permission because
// no grant flow exists yet.
func (s *LiveService) RequestCapture(roomID string) error {
	room, err := s.lifecycle.GetRoom(roomID)
	if err != nil {
		return err
	}
	if !room.IsLive {
		return ErrNotSupported
	}
	s.logger.Info("capture requested for live room", zap.String("room_id", roomID))
	return ErrPermissionDenied
}
