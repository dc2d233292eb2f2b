package infra

import (
	"errors"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRelayCaido = errors.New("dial tcp: connection refused")

func falla() error   { return errRelayCaido }
func enviaOK() error { return nil }

func TestSMTPBreaker_SuspendeTrasFallosConsecutivos(t *testing.T) {
	b := NewSMTPBreaker(SMTPBreakerConfig{FallosParaSuspender: 3, Cooldown: time.Minute})

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, b.Send(falla), errRelayCaido)
	}
	assert.Equal(t, "suspendido", b.Estado())

	// Suspended: the send function must not even run
	llamado := false
	err := b.Send(func() error { llamado = true; return nil })
	assert.ErrorIs(t, err, ErrSMTPSuspendido)
	assert.False(t, llamado)
}

func TestSMTPBreaker_ExitoReiniciaElConteo(t *testing.T) {
	b := NewSMTPBreaker(SMTPBreakerConfig{FallosParaSuspender: 2, Cooldown: time.Minute})

	require.Error(t, b.Send(falla))
	require.NoError(t, b.Send(enviaOK))
	require.Error(t, b.Send(falla))
	// Two failures, but not consecutive — still active
	assert.Equal(t, "activo", b.Estado())
}

func TestSMTPBreaker_SondeoTrasCooldown(t *testing.T) {
	b := NewSMTPBreaker(SMTPBreakerConfig{FallosParaSuspender: 1, Cooldown: 10 * time.Millisecond})

	require.Error(t, b.Send(falla))
	require.Equal(t, "suspendido", b.Estado())

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, "sondeo", b.Estado())

	// Probe succeeds → delivery resumes
	require.NoError(t, b.Send(enviaOK))
	assert.Equal(t, "activo", b.Estado())
}

func TestSMTPBreaker_SondeoFallidoVuelveASuspender(t *testing.T) {
	b := NewSMTPBreaker(SMTPBreakerConfig{FallosParaSuspender: 1, Cooldown: 10 * time.Millisecond})

	require.Error(t, b.Send(falla))
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, "sondeo", b.Estado())

	require.Error(t, b.Send(falla))
	assert.Equal(t, "suspendido", b.Estado())
}

func TestSMTPBreaker_RechazoPermanenteNoSuspende(t *testing.T) {
	b := NewSMTPBreaker(SMTPBreakerConfig{FallosParaSuspender: 1, Cooldown: time.Minute})

	// 550 = mailbox unavailable: the relay answered, the message was refused
	rechazo := &textproto.Error{Code: 550, Msg: "mailbox unavailable"}
	assert.Error(t, b.Send(func() error { return rechazo }))
	assert.Equal(t, "activo", b.Estado())

	// 4xx replies are transient relay conditions and do count
	transitorio := &textproto.Error{Code: 421, Msg: "service not available"}
	assert.Error(t, b.Send(func() error { return transitorio }))
	assert.Equal(t, "suspendido", b.Estado())
}
