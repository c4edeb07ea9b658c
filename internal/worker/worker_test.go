package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipChrisLee/drm/internal/config"
	"github.com/ipChrisLee/drm/internal/errs"
	"github.com/ipChrisLee/drm/internal/logging"
	"github.com/ipChrisLee/drm/internal/mailbox"
	"github.com/ipChrisLee/drm/internal/retention"
)

type fakeRetention struct {
	mu    sync.Mutex
	tasks []retention.Task
	err   error
	done  chan struct{}
}

func (f *fakeRetention) Apply(_ context.Context, task retention.Task) (retention.Report, error) {
	f.mu.Lock()
	f.tasks = append(f.tasks, task)
	f.mu.Unlock()
	if f.done != nil {
		f.done <- struct{}{}
	}
	return retention.Report{RunID: "test", Removed: []string{task.Dir + "/x"}}, f.err
}

var jobs = []config.Job{
	{Name: "logs", Dir: "/var/log/app", Range: "(:-7d)[:]"},
	{Name: "backups", Dir: "/srv/backups", Range: "(:)[-3:]", Reverse: true, DryRun: true},
}

func TestHandle(t *testing.T) {
	fake := &fakeRetention{}
	w := New(jobs, logging.Nop(), fake, mailbox.New[string, Job]())

	require.NoError(t, w.Handle(context.Background(), Job{Name: "backups", Trigger: "cron"}))
	require.Len(t, fake.tasks, 1)

	task := fake.tasks[0]
	assert.Equal(t, "backups", task.Name)
	assert.Equal(t, "/srv/backups", task.Dir)
	assert.True(t, task.Reverse)
	assert.True(t, task.DryRun)
	assert.Equal(t, "(:)[-3:]", task.Rule.String())
}

func TestHandle_UnknownJob(t *testing.T) {
	w := New(jobs, logging.Nop(), &fakeRetention{}, mailbox.New[string, Job]())

	err := w.Handle(context.Background(), Job{Name: "ghost"})
	assert.ErrorIs(t, err, errs.ErrConfig)
}

func TestHandle_PropagatesRetentionError(t *testing.T) {
	fake := &fakeRetention{err: errs.Path("Path /var/log/app not exists.")}
	w := New(jobs, logging.Nop(), fake, mailbox.New[string, Job]())

	err := w.Handle(context.Background(), Job{Name: "logs"})
	assert.ErrorIs(t, err, errs.ErrPath)
}

func TestUpdateConfig(t *testing.T) {
	fake := &fakeRetention{}
	w := New(jobs, logging.Nop(), fake, mailbox.New[string, Job]())

	w.UpdateConfig([]config.Job{{Name: "tmp", Dir: "/tmp", Range: "(:)[:]"}})

	assert.Error(t, w.Handle(context.Background(), Job{Name: "logs"}))
	assert.NoError(t, w.Handle(context.Background(), Job{Name: "tmp"}))
}

func TestStart_DrainsMailboxUntilCancelled(t *testing.T) {
	fake := &fakeRetention{done: make(chan struct{}, 4), err: errors.New("ignored by the loop")}
	mb := mailbox.New[string, Job]()
	w := New(jobs, logging.Nop(), fake, mb)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(stopped)
	}()

	mb.Put("logs", Job{Name: "logs", Trigger: "watch"})
	mb.Put("backups", Job{Name: "backups", Trigger: "cron"})

	for i := 0; i < 2; i++ {
		select {
		case <-fake.done:
		case <-time.After(time.Second):
			t.Fatal("worker did not run job")
		}
	}

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Len(t, fake.tasks, 2)
}
