package tasks

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/grand/internal/generation"
	"github.com/desertthunder/grand/internal/media"
	"github.com/desertthunder/grand/internal/models"
	"github.com/desertthunder/grand/internal/services"
	"github.com/desertthunder/grand/internal/session"
	"github.com/desertthunder/grand/internal/shared"
)

// fakeBackend is a scripted content backend. When block is set the next ListContent call
// signals entered and waits for block to close.
type fakeBackend struct {
	mu sync.Mutex

	rows      []models.BackendItem
	listErr   error
	listCalls []int
	block     chan struct{}
	entered   chan struct{}

	regResp *services.AbueloResponse
	regErr  error
	regReqs []services.AbueloRequest

	ytErr    error
	spErr    error
	genCalls []string
}

func (f *fakeBackend) RegisterElder(_ context.Context, req services.AbueloRequest) (*services.AbueloResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regReqs = append(f.regReqs, req)
	return f.regResp, f.regErr
}

func (f *fakeBackend) ListContent(_ context.Context, credID int) ([]models.BackendItem, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, credID)
	rows, err := f.rows, f.listErr
	block := f.block
	f.block = nil
	f.mu.Unlock()

	if block != nil {
		f.entered <- struct{}{}
		<-block
	}
	return rows, err
}

func (f *fakeBackend) GenerateYouTube(_ context.Context, credID int) (*services.GenerationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.genCalls = append(f.genCalls, "youtube")
	if f.ytErr != nil {
		return nil, f.ytErr
	}
	return &services.GenerationResult{Resultados: []services.GeneratedLink{{Titulo: "Tango", URL: "https://youtu.be/dQw4w9WgXcQ"}}}, nil
}

func (f *fakeBackend) GenerateSpotify(_ context.Context, credID int) (*services.GenerationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.genCalls = append(f.genCalls, "spotify")
	if f.spErr != nil {
		return nil, f.spErr
	}
	return &services.GenerationResult{}, nil
}

type fakeLLM struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (f *fakeLLM) Complete(_ context.Context, req services.CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, req.Prompt)
	return f.reply, f.err
}

func (f *fakeLLM) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type fakeMetadata struct {
	meta *services.SpotifyMetadata
	err  error
}

func (f *fakeMetadata) Lookup(_ context.Context, kind media.SpotifyKind, id string) (*services.SpotifyMetadata, error) {
	if f.err != nil {
		return nil, f.err
	}
	m := *f.meta
	m.Kind, m.ID = kind, id
	return &m, nil
}

type recordingObserver struct {
	mu      sync.Mutex
	sources map[Slot][]models.Source
}

func (o *recordingObserver) ObserveGeneration(slot Slot, source models.Source) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.sources == nil {
		o.sources = map[Slot][]models.Source{}
	}
	o.sources[slot] = append(o.sources[slot], source)
}

func quietLogger() *log.Logger { return shared.NewLogger(io.Discard) }

func newEngine(b services.Backend, llm services.TextGenerator) *ContentEngine {
	opts := generation.OptionsFromConfig(shared.DefaultConfig().AI)
	opts.RequestsPerMinute = 0
	gen := generation.New(llm, opts, quietLogger())
	return NewContentEngine(b, gen, quietLogger())
}

func sampleProfile() *models.ElderProfile {
	p := models.NewElderProfile()
	p.Name = "Nélida"
	p.Age = "78"
	p.Interests = "tango, cocina, historia"
	p.Mobility = models.MobilityLimitada
	return p
}

// newStore returns an in-memory store holding sampleProfile.
func newStore(t *testing.T, backend session.Backend, device string) *session.Store {
	t.Helper()
	store := session.New(backend, device)
	require.NoError(t, store.SaveProfile(context.Background(), sampleProfile()))
	return store
}

func drain(ch chan ProgressUpdate) []ProgressUpdate {
	var out []ProgressUpdate
	for {
		select {
		case u := <-ch:
			out = append(out, u)
		default:
			return out
		}
	}
}
