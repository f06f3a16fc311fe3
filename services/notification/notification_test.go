// services/notification/notification_test.go
package notification

import (
	"context"
	"testing"

	"gatherly/utils"

	"github.com/stretchr/testify/require"
)

func TestSend_NoFCMClientIsDropped(t *testing.T) {
	utils.FCMClient = nil

	s := &DefaultNotificationService{}
	err := s.send(context.Background(), "token-1", "Booking confirmed", "See you there", nil)
	require.NoError(t, err, "push without an FCM client is dropped silently")
}
