package dashboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineHappyPath(t *testing.T) {
	m := NewMachine()
	assert.Equal(t, PhaseLoggedOut, m.Phase())
	assert.True(t, m.LoggedOut())

	tk, err := m.BeginLogin()
	require.NoError(t, err)
	assert.Equal(t, PhaseAuthenticating, m.Phase())

	require.True(t, m.LoginSucceeded(tk))
	assert.Equal(t, PhaseAuthenticated, m.Phase())

	require.NoError(t, m.BeginFetch(tk))
	assert.Equal(t, PhaseFetching, m.Phase())

	require.True(t, m.FetchSucceeded(tk))
	assert.Equal(t, PhaseReady, m.Phase())

	// manual reload
	require.NoError(t, m.BeginFetch(tk))
	require.True(t, m.FetchSucceeded(tk))
	assert.Equal(t, PhaseReady, m.Phase())
}

func TestMachineFetchNeverBeforeLogin(t *testing.T) {
	m := NewMachine()
	tk, err := m.BeginLogin()
	require.NoError(t, err)

	err = m.BeginFetch(tk)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, PhaseAuthenticating, m.Phase())
}

func TestMachineLoginOnlyWhenLoggedOut(t *testing.T) {
	m := NewMachine()
	_, err := m.BeginLogin()
	require.NoError(t, err)

	_, err = m.BeginLogin()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = m.Restore()
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMachineFailures(t *testing.T) {
	boom := errors.New("boom")

	t.Run("during authentication", func(t *testing.T) {
		m := NewMachine()
		tk, _ := m.BeginLogin()
		require.True(t, m.Fail(tk, boom))
		assert.Equal(t, PhaseFailed, m.Phase())
		assert.True(t, m.LoggedOut())
		assert.Equal(t, boom, m.Err())

		// can try again
		_, err := m.BeginLogin()
		require.NoError(t, err)
		assert.NoError(t, m.Err())
	})

	t.Run("during fetch", func(t *testing.T) {
		m := NewMachine()
		tk, _ := m.Restore()
		require.NoError(t, m.BeginFetch(tk))
		require.True(t, m.Fail(tk, boom))
		assert.Equal(t, PhaseFailed, m.Phase())
	})

	t.Run("not while ready", func(t *testing.T) {
		m := NewMachine()
		tk, _ := m.Restore()
		require.NoError(t, m.BeginFetch(tk))
		require.True(t, m.FetchSucceeded(tk))
		assert.False(t, m.Fail(tk, boom))
		assert.Equal(t, PhaseReady, m.Phase())
	})
}

func TestMachineLogoutDiscardsInFlight(t *testing.T) {
	m := NewMachine()
	tk, _ := m.Restore()
	require.NoError(t, m.BeginFetch(tk))

	m.Logout()
	assert.Equal(t, PhaseLoggedOut, m.Phase())
	assert.False(t, m.Current(tk))

	// late response from the old chain
	assert.False(t, m.FetchSucceeded(tk))
	assert.False(t, m.Fail(tk, errors.New("late")))
	assert.Equal(t, PhaseLoggedOut, m.Phase())
	assert.NoError(t, m.Err())
}

func TestMachineStaleTicketAfterRelogin(t *testing.T) {
	m := NewMachine()
	old, _ := m.BeginLogin()
	m.Logout()

	fresh, err := m.BeginLogin()
	require.NoError(t, err)

	assert.False(t, m.LoginSucceeded(old))
	assert.Equal(t, PhaseAuthenticating, m.Phase())
	assert.True(t, m.LoginSucceeded(fresh))

	err = m.BeginFetch(old)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "ready", PhaseReady.String())
	assert.Equal(t, "phase(42)", Phase(42).String())
}
