package resolver

import (
	"context"
	"reflect"
	"testing"
)

func scenarioBackend() *fakeBackend {
	b := newFakeBackend()
	b.direct["curcumin"] = curcuminSMILES
	b.direct["quercetin"] = quercetinSMILES
	b.direct["Curcumin"] = curcuminSMILES

	return b
}

var scenarioNames = []string{"curcumin", "Curcumin (95%)", "quercetin", ""}

func TestRunEndToEndScenario(t *testing.T) {
	b := scenarioBackend()
	c := NewController(NewResolver(b, true), ControllerConfig{Workers: 4, Mode: ModePool})

	outcomes := c.Run(context.Background(), scenarioNames)

	if len(outcomes) != len(scenarioNames) {
		t.Fatalf("got %d outcomes, want %d", len(outcomes), len(scenarioNames))
	}

	if o := outcomes["curcumin"]; o.Status != StatusSuccess || o.Strategy != StrategyDirect {
		t.Errorf("curcumin outcome = %+v, want direct success", o)
	}

	if o := outcomes["Curcumin (95%)"]; o.Status != StatusSuccess || o.SMILES != curcuminSMILES {
		t.Errorf("Curcumin (95%%) outcome = %+v, want success via stripped variant", o)
	}

	if o := outcomes["quercetin"]; o.Status != StatusSuccess {
		t.Errorf("quercetin outcome = %+v, want success", o)
	}

	if o := outcomes[""]; o.Status != StatusInvalid {
		t.Errorf("empty name outcome = %+v, want invalid", o)
	}

	snap := c.Stats()

	if snap.Processed != len(scenarioNames) {
		t.Errorf("processed = %d, want %d", snap.Processed, len(scenarioNames))
	}

	if got := snap.Succeeded + snap.Failed + snap.Invalid; got != snap.Processed {
		t.Errorf("succeeded+failed+invalid = %d, want processed = %d", got, snap.Processed)
	}

	var strategySum int
	for _, n := range snap.ByStrategy {
		strategySum += n
	}

	if strategySum != snap.Succeeded {
		t.Errorf("per-strategy counts sum to %d, want succeeded = %d", strategySum, snap.Succeeded)
	}
}

func TestRunModeEquivalence(t *testing.T) {
	names := append([]string{"silymarin", "unobtainium extract", "curcumin"}, scenarioNames...)

	run := func(mode Mode) map[string]string {
		b := scenarioBackend()
		b.cids["silymarin"] = []int{1548994}
		b.cidSMILES[1548994] = quercetinSMILES

		c := NewController(NewResolver(b, true), ControllerConfig{Workers: 3, Mode: mode})

		return SMILESMap(c.Run(context.Background(), names))
	}

	flight := run(ModeFlight)
	pool := run(ModePool)

	if !reflect.DeepEqual(flight, pool) {
		t.Errorf("mode mappings differ:\nflight: %v\npool:   %v", flight, pool)
	}
}

func TestRunPoolRecoversCascadePanic(t *testing.T) {
	b := scenarioBackend()
	b.panicNames["poison"] = true

	c := NewController(NewResolver(b, false), ControllerConfig{Workers: 2, Mode: ModePool})

	outcomes := c.Run(context.Background(), []string{"curcumin", "poison", "quercetin"})

	if o := outcomes["poison"]; o.Status != StatusError {
		t.Errorf("poison outcome = %+v, want error", o)
	}

	if o := outcomes["curcumin"]; o.Status != StatusSuccess {
		t.Errorf("curcumin outcome = %+v, want success despite sibling panic", o)
	}

	if o := outcomes["quercetin"]; o.Status != StatusSuccess {
		t.Errorf("quercetin outcome = %+v, want success despite sibling panic", o)
	}
}

func TestRunAutoFallsBackToPool(t *testing.T) {
	b := scenarioBackend()
	b.panicNames["poison"] = true

	c := NewController(NewResolver(b, false), ControllerConfig{Workers: 1, Mode: ModeAuto})

	// Worker count 1 serializes the flight run, so the panic lands before
	// the trailing names are admitted and the pool must pick them up.
	outcomes := c.Run(context.Background(), []string{"poison", "curcumin", "quercetin"})

	if o := outcomes["poison"]; o.Status != StatusError {
		t.Errorf("poison outcome = %+v, want error from pool retry", o)
	}

	if o := outcomes["curcumin"]; o.Status != StatusSuccess {
		t.Errorf("curcumin outcome = %+v, want success after fallback", o)
	}

	if o := outcomes["quercetin"]; o.Status != StatusSuccess {
		t.Errorf("quercetin outcome = %+v, want success after fallback", o)
	}
}

func TestRunCanceledContextPreservesPartialResults(t *testing.T) {
	b := scenarioBackend()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewController(NewResolver(b, true), ControllerConfig{Workers: 2, Mode: ModeAuto})

	outcomes := c.Run(ctx, scenarioNames)

	// Nothing was admitted, but Run must return cleanly with whatever
	// completed (possibly nothing), never hang or panic.
	if len(outcomes) > len(scenarioNames) {
		t.Errorf("got %d outcomes for %d names", len(outcomes), len(scenarioNames))
	}
}

func TestRunProgressInterval(t *testing.T) {
	b := scenarioBackend()

	var snapshots []Snapshot

	c := NewController(NewResolver(b, true), ControllerConfig{
		Workers:        1,
		Mode:           ModePool,
		ReportInterval: 2,
		Progress: func(s Snapshot) {
			snapshots = append(snapshots, s)
		},
	})

	c.Run(context.Background(), scenarioNames)

	// 4 completions at interval 2 -> snapshots at 2 and 4.
	if len(snapshots) != 2 {
		t.Fatalf("got %d progress snapshots, want 2", len(snapshots))
	}

	if snapshots[0].Processed != 2 || snapshots[1].Processed != 4 {
		t.Errorf("snapshot processed counts = %d, %d, want 2, 4",
			snapshots[0].Processed, snapshots[1].Processed)
	}
}
