package director

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/tomz197/typesurvivors/internal/object"
	"github.com/tomz197/typesurvivors/internal/physics"
)

var testViewport = object.Viewport{Width: 800, Height: 480}

func newTestDirector(t *testing.T, opts Options, words ...string) *Director {
	t.Helper()
	list := make([]object.Word, 0, len(words))
	for _, w := range words {
		list = append(list, object.Word{Text: w, Asset: w + ".png"})
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(42))
	}
	return New(object.NewWordPool(list, object.DefaultTierCutoffs()), testViewport, opts)
}

// moveEnemy places a live enemy and keeps the index in sync, as Tick would.
func moveEnemy(d *Director, id object.EnemyID, x, y float64) {
	e := d.byID[id]
	e.X, e.Y = x, y
	d.index.Update(int(id), e.Body())
}

func distance(e object.Enemy) float64 {
	return physics.Distance(e.X, e.Y, e.TargetX, e.TargetY)
}

func TestSpawnTierDistribution(t *testing.T) {
	d := newTestDirector(t, Options{}, "KEKW", "PogChamp", "catJAMMINGhard")
	const draws = 10000

	tests := []struct {
		score int
		want  [object.TierCount]float64
	}{
		{0, [object.TierCount]float64{0.85, 0.15, 0}},
		{300, [object.TierCount]float64{0.25, 0.45, 0.30}},
	}
	for _, tt := range tests {
		var counts [object.TierCount]int
		for i := 0; i < draws; i++ {
			e, ok := d.Spawn(tt.score)
			if !ok {
				t.Fatalf("Spawn(%d) failed", tt.score)
			}
			counts[e.Tier-1]++
			d.Reset()
		}
		for i, want := range tt.want {
			got := float64(counts[i]) / draws
			if math.Abs(got-want) > 0.03 {
				t.Errorf("score %d tier %d share = %.3f, want %.2f±0.03", tt.score, i+1, got, want)
			}
		}
		if tt.want[2] == 0 && counts[2] != 0 {
			t.Errorf("score %d spawned %d tier 3 enemies, want none", tt.score, counts[2])
		}
	}
}

func TestSpawnUsesTierProfileAndTargetsCentre(t *testing.T) {
	d := newTestDirector(t, Options{}, "PogChamp")
	e, ok := d.Spawn(0)
	if !ok {
		t.Fatal("Spawn failed")
	}
	if e.Tier != object.Tier2 || e.Speed != 30 || e.Size != 80 || e.Style != "mid" {
		t.Fatalf("enemy profile = tier %d speed %v size %v style %q", e.Tier, e.Speed, e.Size, e.Style)
	}
	if e.TargetX != 400 || e.TargetY != 240 {
		t.Fatalf("target = (%v, %v), want (400, 240)", e.TargetX, e.TargetY)
	}
	if e.Asset != "PogChamp.png" {
		t.Fatalf("asset = %q", e.Asset)
	}
	if d.State() != StateActive {
		t.Fatalf("state = %v, want active", d.State())
	}
	if !d.index.Contains(int(e.ID)) {
		t.Fatal("spawned enemy not indexed")
	}
}

func TestSpawnPositionsOnEdges(t *testing.T) {
	d := newTestDirector(t, Options{}, "KEKW")
	for i := 0; i < 200; i++ {
		e, _ := d.Spawn(0)
		onVertical := math.Abs(e.X) <= 12 || math.Abs(e.X-testViewport.Width) <= 12
		onHorizontal := math.Abs(e.Y) <= 12 || math.Abs(e.Y-testViewport.Height) <= 12
		if !onVertical && !onHorizontal {
			t.Fatalf("enemy spawned at (%v, %v), not within jitter of an edge", e.X, e.Y)
		}
		wantLabel := physics.LabelBelow
		if e.Y > testViewport.Height*0.7 {
			wantLabel = physics.LabelAbove
		}
		if e.Label != wantLabel {
			t.Fatalf("enemy at y=%v has label %v, want %v", e.Y, e.Label, wantLabel)
		}
		d.Reset()
	}
}

func TestSpawnFallsBackToWholePoolWithWordTier(t *testing.T) {
	// Only tier 3 words exist, so every rolled tier falls back to them.
	d := newTestDirector(t, Options{}, "catJAMMINGhard")
	for i := 0; i < 50; i++ {
		e, ok := d.Spawn(0)
		if !ok || e.Tier != object.Tier3 {
			t.Fatalf("Spawn = tier %d ok=%v, want tier 3", e.Tier, ok)
		}
	}
}

func TestSpawnEmptyPool(t *testing.T) {
	d := newTestDirector(t, Options{})
	if _, ok := d.Spawn(0); ok {
		t.Fatal("Spawn with an empty pool succeeded")
	}
	if d.LiveCount() != 0 {
		t.Fatalf("LiveCount = %d, want 0", d.LiveCount())
	}
}

func TestTickMovesTowardTarget(t *testing.T) {
	fast := object.TierProfile{Speed: 100, Size: 60}
	d := newTestDirector(t, Options{Tiers: object.TierTable{fast, fast, fast}}, "KEKW")
	e, _ := d.Spawn(0)

	// Put the enemy 200px left of the centre.
	moveEnemy(d, e.ID, 200, 240)
	d.Tick(time.Second)

	got := d.LiveEntities()[0]
	if math.Abs(distance(got)-100) > 1e-6 {
		t.Fatalf("distance after 1s = %v, want 100", distance(got))
	}
	if x, y, _, _ := d.index.Entry(int(e.ID)); x != got.X || y != got.Y {
		t.Fatalf("index holds (%v, %v), enemy at (%v, %v)", x, y, got.X, got.Y)
	}
}

func TestTickStopsWithinEpsilon(t *testing.T) {
	d := newTestDirector(t, Options{}, "KEKW")
	e, _ := d.Spawn(0)
	moveEnemy(d, e.ID, 400.5, 240)
	d.Tick(time.Second)
	if got := d.LiveEntities()[0]; got.X != 400.5 {
		t.Fatalf("enemy inside epsilon moved to %v", got.X)
	}
}

func TestDefeat(t *testing.T) {
	d := newTestDirector(t, Options{}, "KEKW")
	first, _ := d.Spawn(0)
	second, _ := d.Spawn(0)

	got, ok := d.Defeat("kekw")
	if !ok || got.ID != first.ID || !got.Defeated {
		t.Fatalf("Defeat = %+v %v, want oldest enemy %d", got, ok, first.ID)
	}
	if d.index.Contains(int(first.ID)) {
		t.Fatal("defeated enemy still indexed")
	}
	if live := d.LiveEntities(); len(live) != 1 || live[0].ID != second.ID {
		t.Fatalf("LiveEntities = %+v", live)
	}

	if _, ok := d.Defeat("KEKW"); !ok {
		t.Fatal("second Defeat failed")
	}
	if _, ok := d.Defeat("KEKW"); ok {
		t.Fatal("Defeat succeeded with no live match")
	}
	if _, ok := d.Defeat(""); ok {
		t.Fatal("empty text defeated an enemy")
	}
	if d.DefeatedCount() != 2 {
		t.Fatalf("DefeatedCount = %d, want 2", d.DefeatedCount())
	}

	d.Tick(time.Millisecond)
	if len(d.live) != 0 || len(d.byID) != 0 {
		t.Fatalf("defeated enemies not pruned: %d live, %d by id", len(d.live), len(d.byID))
	}
}

func TestDefeatCaseSensitive(t *testing.T) {
	d := newTestDirector(t, Options{CaseSensitive: true}, "KEKW")
	d.Spawn(0)
	if _, ok := d.Defeat("kekw"); ok {
		t.Fatal("case-sensitive director accepted wrong case")
	}
	d.SetCaseSensitive(false)
	if _, ok := d.Defeat("kekw"); !ok {
		t.Fatal("case-insensitive Defeat failed")
	}
}

func TestCheckPlayerCollision(t *testing.T) {
	d := newTestDirector(t, Options{}, "KEKW")
	e, _ := d.Spawn(0)
	player := physics.Vec{X: 500, Y: 500}

	moveEnemy(d, e.ID, 520, 500)
	got, ok := d.CheckPlayerCollision(player, object.DefaultHitRadius)
	if !ok || got.ID != e.ID {
		t.Fatalf("collision at 20px = %v, want hit", ok)
	}
	if d.LiveCount() != 1 {
		t.Fatal("collision removed the enemy")
	}

	moveEnemy(d, e.ID, 600, 500)
	if _, ok := d.CheckPlayerCollision(player, object.DefaultHitRadius); ok {
		t.Fatal("collision reported at 100px")
	}

	moveEnemy(d, e.ID, 520, 500)
	d.Defeat("KEKW")
	if _, ok := d.CheckPlayerCollision(player, object.DefaultHitRadius); ok {
		t.Fatal("defeated enemy collided")
	}
}

func TestResizeRetargets(t *testing.T) {
	d := newTestDirector(t, Options{}, "KEKW")
	d.Spawn(0)
	d.Spawn(0)
	d.Resize(object.Viewport{Width: 1000, Height: 600})
	for _, e := range d.LiveEntities() {
		if e.TargetX != 500 || e.TargetY != 300 {
			t.Fatalf("target = (%v, %v), want (500, 300)", e.TargetX, e.TargetY)
		}
	}
	if d.Viewport().Width != 1000 {
		t.Fatalf("Viewport not updated")
	}
}

func TestResetAndLifecycle(t *testing.T) {
	d := newTestDirector(t, Options{}, "KEKW")
	if d.State() != StateIdle {
		t.Fatalf("initial state = %v", d.State())
	}
	first, _ := d.Spawn(0)
	d.Spawn(0)
	d.Defeat("KEKW")

	d.Stop()
	if _, ok := d.Spawn(0); ok {
		t.Fatal("stopped director spawned")
	}
	before := d.LiveEntities()[0]
	d.Tick(time.Second)
	if after := d.LiveEntities()[0]; after.X != before.X || after.Y != before.Y {
		t.Fatal("stopped director moved enemies")
	}
	d.Start()
	if d.State() != StateStopped {
		t.Fatal("Start revived a stopped director")
	}

	d.Reset()
	if d.State() != StateIdle || d.LiveCount() != 0 || d.DefeatedCount() != 0 {
		t.Fatalf("after Reset: state %v live %d defeated %d", d.State(), d.LiveCount(), d.DefeatedCount())
	}
	if stats := d.Stats(); stats.TotalEnemies != 0 || stats.GridCells != 0 {
		t.Fatalf("index not cleared: %+v", stats)
	}

	next, _ := d.Spawn(0)
	if next.ID <= first.ID {
		t.Fatalf("id %d reused after Reset", next.ID)
	}

	d.Reset()
	d.Start()
	if d.State() != StateActive {
		t.Fatalf("Start from idle = %v", d.State())
	}
}

func TestUpdateSpawnsOnInterval(t *testing.T) {
	d := newTestDirector(t, Options{SpawnInterval: 2 * time.Second}, "KEKW")
	d.Update(time.Second, 0)
	if d.LiveCount() != 0 {
		t.Fatalf("spawned before the interval elapsed")
	}
	d.Update(time.Second, 0)
	if d.LiveCount() != 1 {
		t.Fatalf("LiveCount = %d after 2s, want 1", d.LiveCount())
	}
	d.Update(1500*time.Millisecond, 0)
	if d.LiveCount() != 1 {
		t.Fatalf("LiveCount = %d after 3.5s, want 1", d.LiveCount())
	}
	d.Update(500*time.Millisecond, 0)
	if d.LiveCount() != 2 {
		t.Fatalf("LiveCount = %d after 4s, want 2", d.LiveCount())
	}
}

func TestPlaceAcceptsAfterMaxAttempts(t *testing.T) {
	d := newTestDirector(t, Options{MaxPlacementAttempts: 10}, "KEKW")
	d.viewport = object.Viewport{Width: 10, Height: 10}

	if _, _, _, attempts := d.place(60); attempts != 1 {
		t.Fatalf("empty field took %d attempts, want 1", attempts)
	}

	// A boss parked in the middle of a tiny field covers every edge position.
	e, _ := d.Spawn(0)
	d.byID[e.ID].Size = 108
	moveEnemy(d, e.ID, 5, 5)

	if _, _, _, attempts := d.place(60); attempts != 10 {
		t.Fatalf("blocked field took %d attempts, want 10", attempts)
	}
	if _, ok := d.Spawn(0); !ok {
		t.Fatal("Spawn refused after exhausting attempts")
	}
	if d.LiveCount() != 2 {
		t.Fatalf("LiveCount = %d, want 2", d.LiveCount())
	}
}

func TestOverlapsLiveIndexMatchesBruteForce(t *testing.T) {
	brute := newTestDirector(t, Options{BruteForceLimit: 1 << 20}, "KEKW", "PogChamp", "catJAMMINGhard")
	indexed := newTestDirector(t, Options{BruteForceLimit: -1}, "KEKW", "PogChamp", "catJAMMINGhard")

	for i := 0; i < 80; i++ {
		brute.Spawn(300)
		indexed.Spawn(300)
	}
	if brute.LiveCount() != indexed.LiveCount() {
		t.Fatalf("live counts differ: %d vs %d", brute.LiveCount(), indexed.LiveCount())
	}

	rng := rand.New(rand.NewSource(7))
	sizes := []float64{60, 80, 108}
	for i := 0; i < 2000; i++ {
		body := physics.Body{
			X:    rng.Float64()*900 - 50,
			Y:    rng.Float64()*580 - 50,
			Size: sizes[rng.Intn(len(sizes))],
		}
		if rng.Intn(2) == 0 {
			body.Label = physics.LabelAbove
		}
		if a, b := brute.overlapsLive(body), indexed.overlapsLive(body); a != b {
			t.Fatalf("body %+v: brute force %v, index %v", body, a, b)
		}
	}
}

func TestSeparationPushesApart(t *testing.T) {
	still := object.TierProfile{Speed: 0, Size: 60}
	d := newTestDirector(t, Options{Separation: true, Tiers: object.TierTable{still, still, still}}, "KEKW")
	a, _ := d.Spawn(0)
	b, _ := d.Spawn(0)
	d.byID[a.ID].Label = physics.LabelBelow
	d.byID[b.ID].Label = physics.LabelBelow
	moveEnemy(d, a.ID, 100, 100)
	moveEnemy(d, b.ID, 150, 100)

	d.Tick(time.Millisecond)

	ea, eb := d.byID[a.ID], d.byID[b.ID]
	if gap := eb.X - ea.X; math.Abs(gap-80) > 1e-9 {
		t.Fatalf("gap after separation = %v, want 80", gap)
	}
	if math.Abs(ea.X-85) > 1e-9 || math.Abs(eb.X-165) > 1e-9 {
		t.Fatalf("positions = %v, %v, want 85, 165", ea.X, eb.X)
	}
}

func TestStateString(t *testing.T) {
	if StateIdle.String() != "idle" || StateActive.String() != "active" || StateStopped.String() != "stopped" {
		t.Fatal("unexpected state names")
	}
}
