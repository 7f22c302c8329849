package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/core"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "nested", "lexbot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestKnowledgeRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewKnowledgeRepo(newTestDB(t))

	n, err := repo.CountEntries(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	topics, err := repo.DistinctTopics(ctx)
	require.NoError(t, err)
	assert.Empty(t, topics)

	added, err := repo.AddEntries(ctx, []core.KnowledgeEntry{
		{Topic: "rent", Question: "when is rent due", Context: "monthly"},
		{Topic: "contracts", Question: "what is a lease", Context: "a contract"},
		{Topic: "rent", Question: "can rent rise", Context: "by agreement"},
		{Topic: "contracts", Question: "what is a lease", Context: "a contract"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, added)

	topics, err = repo.DistinctTopics(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"contracts", "rent"}, topics)

	rent, err := repo.FindByTopic(ctx, "rent")
	require.NoError(t, err)
	require.Len(t, rent, 2)
	assert.Equal(t, "when is rent due", rent[0].Question)
	assert.Equal(t, "can rent rise", rent[1].Question)
	assert.Less(t, rent[0].ID, rent[1].ID)

	all, err := repo.FindByTopic(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []string{"rent", "contracts", "rent", "contracts"},
		[]string{all[0].Topic, all[1].Topic, all[2].Topic, all[3].Topic})

	none, err := repo.FindByTopic(ctx, "tax")
	require.NoError(t, err)
	assert.Empty(t, none)

	n, err = repo.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestMessagesRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMessagesRepo(newTestDB(t))

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	require.NoError(t, repo.InsertMessage(ctx, "chat-b", core.SenderUser, "what is a lease"))
	require.NoError(t, repo.InsertMessage(ctx, "chat-b", core.SenderBot, "a contract"))
	require.NoError(t, repo.InsertMessage(ctx, "chat-a", core.SenderUser, "hi"))
	require.NoError(t, repo.InsertMessage(ctx, "chat-a", core.SenderBot, ""))

	msgs, err := repo.ListMessages(ctx, "chat-b")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, core.SenderUser, msgs[0].Sender)
	assert.Equal(t, "what is a lease", msgs[0].Text)
	assert.Equal(t, core.SenderBot, msgs[1].Sender)
	assert.True(t, msgs[0].Timestamp.Equal(base.Add(time.Second)))
	assert.True(t, msgs[1].Timestamp.After(msgs[0].Timestamp))

	empty, err := repo.ListMessages(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, empty)

	ids, err := repo.ListChatIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"chat-b", "chat-a"}, ids)
}

func TestMessagesRepo_RejectsUnknownSender(t *testing.T) {
	repo := NewMessagesRepo(newTestDB(t))
	err := repo.InsertMessage(context.Background(), "c", core.Sender("system"), "x")
	assert.Error(t, err)
}

func TestNewDB_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexbot.db")

	db, err := NewDB(context.Background(), path)
	require.NoError(t, err)
	_, err = NewKnowledgeRepo(db).AddEntries(context.Background(), []core.KnowledgeEntry{{Topic: "t", Question: "q", Context: "c"}})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = NewDB(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()

	n, err := NewKnowledgeRepo(db).CountEntries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
