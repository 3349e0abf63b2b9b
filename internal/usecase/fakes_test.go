package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/haotianfei/frigate-exports-backup/internal/domain/entity"
)

// fakeAPI scripts the Frigate API per poll. onList receives the 1-based poll
// number so tests can mutate files between polls.
type fakeAPI struct {
	mu       sync.Mutex
	polls    int
	onList   func(poll int) ([]entity.ExportRecord, error)
	cameras  []string
	startErr map[string]error
	started  []string
	deleted  []string
	delErr   error
}

func (f *fakeAPI) Cameras(context.Context) ([]string, error) {
	return f.cameras, nil
}

func (f *fakeAPI) StartExport(_ context.Context, camera string, _, _ int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.startErr[camera]; ok {
		return err
	}
	f.started = append(f.started, camera)
	return nil
}

func (f *fakeAPI) ListExports(context.Context) ([]entity.ExportRecord, error) {
	f.mu.Lock()
	f.polls++
	poll := f.polls
	f.mu.Unlock()
	if f.onList == nil {
		return nil, errors.New("no export list scripted")
	}
	return f.onList(poll)
}

func (f *fakeAPI) DeleteExport(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeRunRepo struct {
	created []*entity.Run
	updated []*entity.Run
}

func (r *fakeRunRepo) Create(_ context.Context, run *entity.Run) error {
	r.created = append(r.created, run)
	return nil
}

func (r *fakeRunRepo) Update(_ context.Context, run *entity.Run) error {
	r.updated = append(r.updated, run)
	return nil
}

func (r *fakeRunRepo) FindByID(context.Context, uuid.UUID) (*entity.Run, error) {
	return nil, errors.New("not found")
}

type fakeNotifier struct {
	calls [][]string
}

func (n *fakeNotifier) NotifyUnresolved(_ context.Context, _, _ string, cameras []string) error {
	n.calls = append(n.calls, cameras)
	return nil
}

type fakePublisher struct {
	messages [][]byte
}

func (p *fakePublisher) PublishStatus(_ context.Context, msg []byte) error {
	p.messages = append(p.messages, msg)
	return nil
}
