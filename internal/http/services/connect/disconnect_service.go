package connect

import (
	"context"

	"github.com/dropDatabas3/autolink/internal/observability/logger"
	"github.com/dropDatabas3/autolink/internal/store"
)

// DisconnectService clears the stored LinkedIn credential.
type DisconnectService struct {
	credentials store.CredentialGateway
}

func NewDisconnectService(c store.CredentialGateway) *DisconnectService {
	return &DisconnectService{credentials: c}
}

func (s *DisconnectService) Disconnect(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrMissingUser
	}
	if err := s.credentials.Disconnect(ctx, userID); err != nil {
		logger.From(ctx).Error("disconnect failed",
			logger.Component("connect.disconnect"), logger.UserID(userID), logger.Err(err))
		return err
	}
	logger.From(ctx).Info("linkedin disconnected", logger.Component("connect.disconnect"), logger.UserID(userID))
	return nil
}
