package resolver

import (
	"context"
	"errors"
	"sync"
)

// fakeBackend is an in-memory Backend for cascade and controller tests.
// Every lookup table is keyed by the exact query string, so tests control
// precisely which (strategy, variant) pair hits.
type fakeBackend struct {
	mu    sync.Mutex
	calls int

	direct    map[string]string   // name -> SMILES
	raw       map[string]string   // POST body -> SMILES
	cids      map[string][]int    // name -> CIDs (wildcard names included)
	cidSMILES map[int]string      // CID -> SMILES
	synonyms  map[string][]string // name -> synonyms

	errNames   map[string]bool // names whose direct lookup fails with a transport error
	panicNames map[string]bool // names whose direct lookup panics
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		direct:     make(map[string]string),
		raw:        make(map[string]string),
		cids:       make(map[string][]int),
		cidSMILES:  make(map[int]string),
		synonyms:   make(map[string][]string),
		errNames:   make(map[string]bool),
		panicNames: make(map[string]bool),
	}
}

func (b *fakeBackend) count() {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
}

func (b *fakeBackend) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.calls
}

func (b *fakeBackend) SMILESByName(_ context.Context, name string) (string, error) {
	b.count()

	if b.panicNames[name] {
		panic("transport subsystem failure")
	}

	if b.errNames[name] {
		return "", errors.New("connection reset")
	}

	return b.direct[name], nil
}

func (b *fakeBackend) SMILESByRawName(_ context.Context, name string) (string, error) {
	b.count()
	return b.raw[name], nil
}

func (b *fakeBackend) SMILESByCID(_ context.Context, cid int) (string, error) {
	b.count()
	return b.cidSMILES[cid], nil
}

func (b *fakeBackend) CIDsByName(_ context.Context, name string) ([]int, error) {
	b.count()
	return b.cids[name], nil
}

func (b *fakeBackend) SynonymsByName(_ context.Context, name string) ([]string, error) {
	b.count()
	return b.synonyms[name], nil
}

const (
	curcuminSMILES  = `COc1cc(/C=C/C(=O)CC(=O)/C=C/c2ccc(O)c(OC)c2)ccc1O`
	quercetinSMILES = `C1=CC(=C(C=C1C2=C(C(=O)C3=C(C=C(C=C3O2)O)O)O)O)O`
)
