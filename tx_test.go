package goamqp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTxSelectCommitRollback(t *testing.T) {
	addr := listenBroker(t, func(b *testBroker) {
		b.handshake(0, 2047, 131072)
		b.openChannel(1)

		sel := b.readMethod()
		if _, ok := sel.(*txSelect); !ok {
			return
		}
		b.writeMethod(1, &txSelectOk{})

		commit := b.readMethod()
		if _, ok := commit.(*txCommit); !ok {
			return
		}
		b.writeMethod(1, &txCommitOk{})

		rollback := b.readMethod()
		if _, ok := rollback.(*txRollback); !ok {
			return
		}
		b.writeMethod(1, &txRollbackOk{})

		b.expectChannelClose(1)
		b.expectConnectionClose()
	})

	conn, ch := dialOpenChannel(t, addr)
	tx := NewTx(ch)

	require.NoError(t, tx.Select())
	require.NoError(t, tx.Commit())
	require.NoError(t, tx.Rollback())

	require.NoError(t, ch.Close(ReplySuccess, "bye"))
	require.NoError(t, conn.Close())
}

func TestTxCommitRollbackWithoutSelectFails(t *testing.T) {
	addr := listenBroker(t, func(b *testBroker) {
		b.handshake(0, 2047, 131072)
		b.openChannel(1)
		b.expectChannelClose(1)
		b.expectConnectionClose()
	})

	conn, ch := dialOpenChannel(t, addr)
	tx := NewTx(ch)

	require.ErrorIs(t, tx.Commit(), ErrNoActiveTransaction)
	require.ErrorIs(t, tx.Rollback(), ErrNoActiveTransaction)

	require.NoError(t, ch.Close(ReplySuccess, "bye"))
	require.NoError(t, conn.Close())
}

func TestTxSelectConflictsWithConfirmMode(t *testing.T) {
	addr := listenBroker(t, func(b *testBroker) {
		b.handshake(0, 2047, 131072)
		b.openChannel(1)

		sel := b.readMethod()
		if _, ok := sel.(*confirmSelect); !ok {
			return
		}
		b.writeMethod(1, &confirmSelectOk{})

		b.expectChannelClose(1)
		b.expectConnectionClose()
	})

	conn, ch := dialOpenChannel(t, addr)
	require.NoError(t, ch.Confirm(false))

	tx := NewTx(ch)
	require.ErrorIs(t, tx.Select(), ErrTxConfirmConflict)

	require.NoError(t, ch.Close(ReplySuccess, "bye"))
	require.NoError(t, conn.Close())
}
