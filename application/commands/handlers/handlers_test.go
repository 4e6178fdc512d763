package handlers

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"agentxrp-backend/application/commands"
	"agentxrp-backend/application/ports"
	"agentxrp-backend/application/services"
	"agentxrp-backend/domain/core/valueobjects"
	"agentxrp-backend/domain/events"
	"agentxrp-backend/infrastructure/persistence/gormdb"
	pkgerrors "agentxrp-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{event})
}

func (p *recordingPublisher) PublishBatch(_ context.Context, evts []events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evts...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.GetEventType())
	}
	return out
}

type countingMetrics struct {
	ports.NopMetrics
	mu              sync.Mutex
	votes           int
	tips            int
	duplicates      int
	karmaFailures   int
	tipDropsCounted int64
}

func (m *countingMetrics) VoteCast(string) {
	m.mu.Lock()
	m.votes++
	m.mu.Unlock()
}

func (m *countingMetrics) TipRecorded(amount int64) {
	m.mu.Lock()
	m.tips++
	m.tipDropsCounted += amount
	m.mu.Unlock()
}

func (m *countingMetrics) DuplicateTipRejected() {
	m.mu.Lock()
	m.duplicates++
	m.mu.Unlock()
}

func (m *countingMetrics) KarmaRecalculationFailed() {
	m.mu.Lock()
	m.karmaFailures++
	m.mu.Unlock()
}

type fixture struct {
	store     *gormdb.Store
	publisher *recordingPublisher
	metrics   *countingMetrics
	register  *RegisterAgentHandler
	post      *CreatePostHandler
	comment   *AddCommentHandler
	vote      *CastVoteHandler
	tip       *RecordTipHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	store, err := gormdb.Open(gormdb.Options{
		Driver: gormdb.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "handlers.db"),
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	publisher := &recordingPublisher{}
	metrics := &countingMetrics{}
	dispatcher := services.NewEventDispatcher(publisher, metrics, logger)
	karma := services.NewKarmaService(store, dispatcher, logger)

	return &fixture{
		store:     store,
		publisher: publisher,
		metrics:   metrics,
		register:  NewRegisterAgentHandler(store.Agents(), dispatcher, logger),
		post:      NewCreatePostHandler(store, nil, dispatcher, logger),
		comment:   NewAddCommentHandler(store, nil, logger),
		vote:      NewCastVoteHandler(store, karma, dispatcher, metrics, logger),
		tip:       NewRecordTipHandler(store, dispatcher, metrics, logger),
	}
}

var addresses = []string{
	"rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh",
	"rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTj",
	"rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTk",
	"rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTm",
}

func (f *fixture) registerAgent(t *testing.T, name string, i int) *commands.RegisterAgentResult {
	t.Helper()
	res, err := f.register.Handle(context.Background(), commands.RegisterAgentCommand{
		Name:       name,
		XRPAddress: addresses[i],
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) createPost(t *testing.T, agentID, title string) string {
	t.Helper()
	res, err := f.post.Handle(context.Background(), commands.CreatePostCommand{
		AgentID: agentID,
		Title:   title,
	})
	require.NoError(t, err)
	return res.ID
}

func (f *fixture) castVote(t *testing.T, voterID, postID string, dir valueobjects.VoteDirection) *commands.CastVoteResult {
	t.Helper()
	res, err := f.vote.Handle(context.Background(), commands.CastVoteCommand{
		VoterID:   voterID,
		PostID:    postID,
		Direction: dir,
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) karmaOf(t *testing.T, agentID string) int64 {
	t.Helper()
	agent, err := f.store.Agents().GetByID(context.Background(), agentID)
	require.NoError(t, err)
	return agent.Karma()
}

func TestVoteAndKarmaScenario(t *testing.T) {
	f := newFixture(t)
	alice := f.registerAgent(t, "alice", 0)
	bob := f.registerAgent(t, "bob", 1)
	carol := f.registerAgent(t, "carol", 2)
	p1 := f.createPost(t, alice.ID, "Alice writes")

	res := f.castVote(t, bob.ID, p1, valueobjects.Up)
	assert.Equal(t, int64(1), res.Upvotes)
	assert.Equal(t, int64(0), res.Downvotes)
	assert.False(t, res.KarmaStale)
	assert.Equal(t, int64(1), f.karmaOf(t, alice.ID))

	res = f.castVote(t, carol.ID, p1, valueobjects.Down)
	assert.Equal(t, int64(1), res.Upvotes)
	assert.Equal(t, int64(1), res.Downvotes)
	assert.Equal(t, int64(0), f.karmaOf(t, alice.ID))

	res = f.castVote(t, bob.ID, p1, valueobjects.Down)
	assert.Equal(t, int64(0), res.Upvotes)
	assert.Equal(t, int64(2), res.Downvotes)
	assert.Equal(t, int64(-2), f.karmaOf(t, alice.ID))

	post, err := f.store.Posts().GetByID(context.Background(), p1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), post.Upvotes())
	assert.Equal(t, int64(2), post.Downvotes())

	assert.Equal(t, 3, f.metrics.votes)
	assert.Contains(t, f.publisher.types(), events.TypeVoteCast)
	assert.Contains(t, f.publisher.types(), events.TypeKarmaRecalculated)
}

func TestRepeatedVoteDoesNotDuplicate(t *testing.T) {
	f := newFixture(t)
	alice := f.registerAgent(t, "alice", 0)
	bob := f.registerAgent(t, "bob", 1)
	p1 := f.createPost(t, alice.ID, "Alice writes")

	for i := 0; i < 5; i++ {
		res := f.castVote(t, bob.ID, p1, valueobjects.Up)
		assert.Equal(t, int64(1), res.Upvotes)
	}
	assert.Equal(t, int64(1), f.karmaOf(t, alice.ID))
}

func TestConcurrentVotesMatchRowCount(t *testing.T) {
	f := newFixture(t)
	alice := f.registerAgent(t, "alice", 0)
	p1 := f.createPost(t, alice.ID, "Popular post")

	const voters = 12
	var wg sync.WaitGroup
	errs := make(chan error, voters)
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dir := valueobjects.Up
			if i%3 == 0 {
				dir = valueobjects.Down
			}
			_, err := f.vote.Handle(context.Background(), commands.CastVoteCommand{
				VoterID:   fmt.Sprintf("voter%03d", i),
				PostID:    p1,
				Direction: dir,
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	post, err := f.store.Posts().GetByID(context.Background(), p1)
	require.NoError(t, err)
	assert.Equal(t, int64(8), post.Upvotes())
	assert.Equal(t, int64(4), post.Downvotes())
	assert.Equal(t, int64(4), f.karmaOf(t, alice.ID))
}

func TestVoteOnUnknownPostKeepsRow(t *testing.T) {
	f := newFixture(t)
	bob := f.registerAgent(t, "bob", 1)

	res := f.castVote(t, bob.ID, "nopost01", valueobjects.Up)
	assert.Equal(t, int64(1), res.Upvotes)
	assert.False(t, res.KarmaStale)

	tally, err := f.store.Votes().Tally(context.Background(), "post", "nopost01")
	require.NoError(t, err)
	assert.Equal(t, int64(1), tally.Upvotes)
}

type failingKarma struct{}

func (failingKarma) Recalculate(context.Context, string) (int64, error) {
	return 0, errors.New("store unavailable")
}

func TestVoteReportsStaleKarma(t *testing.T) {
	f := newFixture(t)
	alice := f.registerAgent(t, "alice", 0)
	bob := f.registerAgent(t, "bob", 1)
	p1 := f.createPost(t, alice.ID, "Alice writes")

	handler := NewCastVoteHandler(f.store, failingKarma{}, nil, f.metrics, zap.NewNop())
	res, err := handler.Handle(context.Background(), commands.CastVoteCommand{
		VoterID:   bob.ID,
		PostID:    p1,
		Direction: valueobjects.Up,
	})
	require.NoError(t, err)
	assert.True(t, res.KarmaStale)
	assert.Equal(t, int64(1), res.Upvotes)
	assert.Equal(t, 1, f.metrics.karmaFailures)
	assert.Equal(t, int64(0), f.karmaOf(t, alice.ID))
}

func TestRecordTipScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.registerAgent(t, "alice", 0)
	bob := f.registerAgent(t, "bob", 1)
	p1 := f.createPost(t, alice.ID, "Alice writes")

	cmd := commands.RecordTipCommand{
		FromAgentID: bob.ID,
		ToAgentName: "alice",
		AmountDrops: 5_000_000,
		TxHash:      "TXA",
		PostID:      p1,
	}
	res, err := f.tip.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, "TXA", res.TxHash)
	assert.NotEmpty(t, res.TipID)

	_, err = f.tip.Handle(ctx, cmd)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
	assert.Equal(t, pkgerrors.CodeDuplicateTransaction, pkgerrors.GetAppError(err).Code)

	post, err := f.store.Posts().GetByID(ctx, p1)
	require.NoError(t, err)
	assert.Equal(t, int64(5_000_000), post.TipsDrops())

	total, err := f.store.Tips().SumDrops(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), valueobjects.Drops(total).WholeXRP())

	assert.Equal(t, 1, f.metrics.tips)
	assert.Equal(t, 1, f.metrics.duplicates)
	assert.Contains(t, f.publisher.types(), events.TypeTipRecorded)
}

func TestConcurrentDuplicateTipsSucceedOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.registerAgent(t, "alice", 0)
	bob := f.registerAgent(t, "bob", 1)
	p1 := f.createPost(t, alice.ID, "Alice writes")

	const n = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.tip.Handle(ctx, commands.RecordTipCommand{
				FromAgentID: bob.ID,
				ToAgentName: "alice",
				AmountDrops: 1_000,
				TxHash:      "TXSAME",
				PostID:      p1,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case pkgerrors.IsConflict(err):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)

	post, err := f.store.Posts().GetByID(ctx, p1)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000), post.TipsDrops())
}

func TestRecordTipFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	bob := f.registerAgent(t, "bob", 1)
	f.registerAgent(t, "alice", 0)

	t.Run("unknown recipient", func(t *testing.T) {
		_, err := f.tip.Handle(ctx, commands.RecordTipCommand{
			FromAgentID: bob.ID,
			ToAgentName: "nobody",
			AmountDrops: 10,
			TxHash:      "TXR",
		})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsNotFound(err))
		assert.Equal(t, pkgerrors.CodeRecipientNotFound, pkgerrors.GetAppError(err).Code)
	})

	t.Run("unknown post rolls back", func(t *testing.T) {
		_, err := f.tip.Handle(ctx, commands.RecordTipCommand{
			FromAgentID: bob.ID,
			ToAgentName: "alice",
			AmountDrops: 10,
			TxHash:      "TXP",
			PostID:      "nopost01",
		})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsNotFound(err))

		exists, err := f.store.Tips().ExistsByTxHash(ctx, "TXP")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("negative amount", func(t *testing.T) {
		_, err := f.tip.Handle(ctx, commands.RecordTipCommand{
			FromAgentID: bob.ID,
			ToAgentName: "alice",
			AmountDrops: -1,
			TxHash:      "TXN",
		})
		assert.True(t, pkgerrors.IsValidation(err))
	})
}

func TestRegisterAgentConflicts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	res := f.registerAgent(t, "alice", 0)
	assert.True(t, valueobjects.IsAPIKey(res.APIKey))

	_, err := f.register.Handle(ctx, commands.RegisterAgentCommand{Name: "alice", XRPAddress: addresses[1]})
	assert.True(t, pkgerrors.IsConflict(err))

	_, err = f.register.Handle(ctx, commands.RegisterAgentCommand{Name: "alice2", XRPAddress: addresses[0]})
	assert.True(t, pkgerrors.IsConflict(err))

	assert.Contains(t, f.publisher.types(), events.TypeAgentRegistered)
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.registerAgent(t, "alice", 0)
	p1 := f.createPost(t, alice.ID, "Alice writes")

	res, err := f.comment.Handle(ctx, commands.AddCommentCommand{
		AgentID: alice.ID,
		PostID:  p1,
		Content: "first!",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)

	_, err = f.comment.Handle(ctx, commands.AddCommentCommand{
		AgentID: alice.ID,
		PostID:  "nopost01",
		Content: "lost",
	})
	assert.True(t, pkgerrors.IsNotFound(err))

	n, err := f.store.Comments().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
