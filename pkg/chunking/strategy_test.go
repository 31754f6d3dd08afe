package chunking

import (
	"errors"
	"testing"
)

func mustCfg(t *testing.T, c Config) Config {
	t.Helper()
	cfg, err := c.normalized()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

func TestSelect_StrictPicksFirstApplicable(t *testing.T) {
	cfg := mustCfg(t, Config{})
	a := Analysis{CodeBlockCount: 1, CodeRatio: 0.05, ListRatio: 0.9, ListItemCount: 20}

	s, err := selectStrategy(defaultRegistry(), a, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name() != StrategyCodeAware {
		t.Errorf("strict mode should pick code_aware first, got %s", s.Name())
	}
}

func TestSelect_WeightedPrefersQuality(t *testing.T) {
	// One marginal code block against an overwhelmingly list-shaped
	// document: weighted scoring must override raw priority.
	cfg := mustCfg(t, Config{SelectionMode: SelectWeighted})
	a := Analysis{CodeBlockCount: 1, CodeRatio: 0.05, ListRatio: 0.9, ListItemCount: 20}

	s, err := selectStrategy(defaultRegistry(), a, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name() != StrategyListAware {
		t.Errorf("weighted mode should pick list_aware, got %s", s.Name())
	}
}

func TestSelect_Override(t *testing.T) {
	cfg := mustCfg(t, Config{StrategyOverride: StrategyUniversal})
	a := Analysis{HeaderCount: 10}

	s, err := selectStrategy(defaultRegistry(), a, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name() != StrategyUniversal {
		t.Errorf("override ignored, got %s", s.Name())
	}
}

func TestSelect_UnknownOverrideInRegistry(t *testing.T) {
	cfg := mustCfg(t, Config{})
	cfg.StrategyOverride = "bogus" // bypass normalization on purpose
	_, err := selectStrategy(defaultRegistry(), Analysis{}, cfg)
	if !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("expected ErrUnknownStrategy, got %v", err)
	}
}

func TestSelect_UniversalIsTerminal(t *testing.T) {
	cfg := mustCfg(t, Config{})
	s, err := selectStrategy(defaultRegistry(), Analysis{}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name() != StrategyUniversal {
		t.Errorf("empty analysis should land on universal, got %s", s.Name())
	}
}

func TestSelect_Deterministic(t *testing.T) {
	cfg := mustCfg(t, Config{SelectionMode: SelectWeighted})
	a := Analysis{HeaderCount: 4, MaxHeaderDepth: 2, ListRatio: 0.5, ListItemCount: 8}
	first, err := selectStrategy(defaultRegistry(), a, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		s, err := selectStrategy(defaultRegistry(), a, cfg)
		if err != nil || s.Name() != first.Name() {
			t.Fatalf("run %d: got %v, %v; want %s", i, s, err, first.Name())
		}
	}
}

func TestCodeAware_CanHandle(t *testing.T) {
	cfg := mustCfg(t, Config{})
	s := codeAwareStrategy{}

	if !s.CanHandle(Analysis{CodeRatio: 0.5}, cfg) {
		t.Error("high code ratio should qualify")
	}
	if !s.CanHandle(Analysis{CodeBlockCount: 1}, cfg) {
		t.Error("a single code block should qualify")
	}
	if s.CanHandle(Analysis{}, cfg) {
		t.Error("no code should not qualify")
	}
}

func TestListAware_SignalsCombineByHeaderStrength(t *testing.T) {
	cfg := mustCfg(t, Config{})
	s := listAwareStrategy{}

	// Without strong headers, either signal suffices.
	weak := Analysis{ListRatio: 0.5, ListItemCount: 2}
	if !s.CanHandle(weak, cfg) {
		t.Error("ratio alone should qualify when headers are weak")
	}

	// With headers at or above the structure threshold, both must hit.
	strong := weak
	strong.HeaderCount = cfg.StructureThreshold
	if s.CanHandle(strong, cfg) {
		t.Error("ratio alone should not qualify against strong headers")
	}
	strong.ListItemCount = cfg.ListCountThreshold
	if !s.CanHandle(strong, cfg) {
		t.Error("both signals should qualify against strong headers")
	}
}

func TestStructural_CanHandle(t *testing.T) {
	cfg := mustCfg(t, Config{})
	s := structuralStrategy{}

	if s.CanHandle(Analysis{HeaderCount: cfg.StructureThreshold - 1}, cfg) {
		t.Error("below threshold should not qualify")
	}
	if !s.CanHandle(Analysis{HeaderCount: cfg.StructureThreshold}, cfg) {
		t.Error("at threshold should qualify")
	}
}

func TestQuality_Bounds(t *testing.T) {
	extremes := []Analysis{
		{},
		{CodeRatio: 1, CodeBlockCount: 50, ListRatio: 1, ListItemCount: 100, HeaderCount: 50, MaxHeaderDepth: 6},
	}
	for _, s := range defaultRegistry() {
		for _, a := range extremes {
			q := s.Quality(a)
			if q < 0 || q > 1 {
				t.Errorf("%s quality out of [0,1]: %g for %+v", s.Name(), q, a)
			}
		}
	}
}

func TestSplitSentences_MultipleSentences(t *testing.T) {
	got := splitSentences("First sentence here. Second one follows. Third ends it.")
	if len(got) != 3 {
		t.Fatalf("expected 3 sentences, got %d: %q", len(got), got)
	}
	if got[0] != "First sentence here." {
		t.Errorf("first sentence wrong: %q", got[0])
	}
}
