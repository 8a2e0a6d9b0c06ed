package mirrorbot

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/profclems/mirrorbot/internal/botjob"
	"github.com/profclems/mirrorbot/internal/mirrorbot/mocks"
	"github.com/profclems/mirrorbot/internal/provider"
)

const repo = "repo"
const repoOwner = "testman"

const mirrorRemoteURL = "git@example.com:testman/repo-ci.git"

type testBot struct {
	*Bot
	ghClient *mocks.MockGithubClient
	ciClient *mocks.MockCIClient
	git      *mocks.MockGitCmd
}

func newTestBot(t *testing.T) *testBot {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	mockctrl := gomock.NewController(t)
	ghClient := mocks.NewMockGithubClient(mockctrl)
	ciClient := mocks.NewMockCIClient(mockctrl)
	git := mocks.NewMockGitCmd(mockctrl)

	conf := Config{
		Repository:            Repository{Owner: repoOwner, RepositoryName: repo},
		MirrorRemoteURL:       mirrorRemoteURL,
		CheckoutRootDir:       t.TempDir(),
		LaneContext:           "ci/mirror",
		RebaseLabel:           "needs: rebase",
		MaxConcurrentHandlers: 1,
	}

	bot := New(conf, ghClient, ciClient, git, botjob.NewRetryer())
	// tests that call handler methods directly never run Stop(), terminate
	// the pool goroutines when the test finished
	t.Cleanup(bot.pool.Wait)

	return &testBot{
		Bot:      bot,
		ghClient: ghClient,
		ciClient: ciClient,
		git:      git,
	}
}

// process runs the event loop, feeds it the events and waits until all
// handlers terminated.
func (b *testBot) process(events ...any) {
	go b.EventLoop()

	for _, ev := range events {
		b.C() <- &provider.Event{Event: ev}
	}

	b.Stop()
}

func TestEventsOfUnmonitoredRepositoriesAreIgnored(t *testing.T) {
	b := newTestBot(t)

	ev := newPushEvent("master", "Merge PR #1: change")
	ev.Repo.Owner.Login = strPtr("somebody-else")

	// no mock expectations, any client call fails the test
	b.process(ev)
}

func TestUnsupportedEventTypesAreIgnored(t *testing.T) {
	b := newTestBot(t)

	b.process("not an event")
}

func TestStopWaitsForRunningHandlers(t *testing.T) {
	b := newTestBot(t)

	// the handler is still running when Stop() is called, its forge
	// operations must be executed nonetheless
	b.ciClient.EXPECT().
		JobTrace(gomock.Any(), gomock.Eq(7), gomock.Eq(42)).
		DoAndReturn(func(context.Context, int, int) (string, error) {
			time.Sleep(50 * time.Millisecond)
			return "--- FAIL: TestSomething (0.03s)\n", nil
		})
	b.ghClient.EXPECT().
		CreateCommitStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("deadbeef"), gomock.Any()).
		Return(nil).
		Times(1)

	b.process(newJobEvent(7, 42, "unittest", "failed", "script_failure", false))
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
