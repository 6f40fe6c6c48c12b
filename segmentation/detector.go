package segmentation

import (
	"context"
	"math/rand"
	"sort"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/shapeseg/pointcloud"
	"go.viam.com/shapeseg/shape"
)

// maxFailuresInARow forces detection to exit when more than this many
// consecutive iterations make no progress.
const maxFailuresInARow = 10000

// ExtractedShape is one committed detection: the fitted surface and the
// indices of the points it claims.
type ExtractedShape struct {
	Surface shape.Surface
	Indices []int
}

// Option configures a Detector at construction.
type Option func(*Detector)

// WithSeed fixes the random seed; two detectors built with the same seed
// over the same cloud and kinds produce identical results.
func WithSeed(seed int64) Option {
	return func(d *Detector) {
		d.rng = rand.New(rand.NewSource(seed))
	}
}

// Detector extracts primitive shapes from an oriented point cloud. Build
// it once, register the shape kinds of interest, then call Detect once.
type Detector struct {
	cloud    *pointcloud.Cloud
	logger   golog.Logger
	rng      *rand.Rand
	registry shape.Registry

	global *octree
	ladder *subsetLadder

	assigned        []int32
	subsetAvailable []int
	available       int

	shapes []ExtractedShape
	seq    uint64
	ran    bool
}

// NewDetector builds the global octree and the subset ladder over the
// cloud; construction is O(N log N).
func NewDetector(cloud *pointcloud.Cloud, logger golog.Logger, opts ...Option) (*Detector, error) {
	if cloud == nil || cloud.Size() == 0 {
		return nil, pointcloud.ErrEmptyCloud
	}
	d := &Detector{
		cloud:  cloud,
		logger: logger,
		rng:    rand.New(rand.NewSource(rand.Int63())),
	}
	for _, opt := range opts {
		opt(d)
	}

	n := cloud.Size()
	all := make([]int32, n)
	for i := range all {
		all[i] = int32(i)
	}
	d.global = newOctree(cloud, all)
	d.ladder = newSubsetLadder(cloud, d.rng)

	d.assigned = make([]int32, n)
	for i := range d.assigned {
		d.assigned[i] = unassignedID
	}
	d.subsetAvailable = make([]int, d.ladder.count())
	for s := range d.subsetAvailable {
		d.subsetAvailable[s] = d.ladder.size(s)
	}
	d.available = n
	return d, nil
}

// RegisterKind adds a shape family to try during detection. It must be
// called before Detect.
func (d *Detector) RegisterKind(k shape.Kind) error {
	if d.ran {
		return errors.New("cannot register shape kinds after detection")
	}
	return d.registry.Register(k)
}

// Shapes returns the extracted shapes in extraction order.
func (d *Detector) Shapes() []ExtractedShape {
	out := make([]ExtractedShape, len(d.shapes))
	copy(out, d.shapes)
	return out
}

// UnassignedIndices returns the indices of points no shape claims.
func (d *Detector) UnassignedIndices() []int {
	var out []int
	for i, id := range d.assigned {
		if id == unassignedID {
			out = append(out, i)
		}
	}
	return out
}

// Detect runs the detection loop until the probability of having
// overlooked a shape with MinPoints support drops below
// cfg.Probability, the available points run out, or progress stalls.
// It may be called once per detector.
func (d *Detector) Detect(ctx context.Context, cfg Config) error {
	if d.ran {
		return errors.New("detect may only be called once per detector")
	}
	d.ran = true
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	kinds := d.registry.Kinds()
	if len(kinds) == 0 {
		d.logger.Warn("no shape kinds registered; returning no shapes")
		return nil
	}

	maxSample := d.registry.MaxSampleSize()
	levels := d.global.maxLevel
	if levels < 1 {
		levels = 1
	}
	minPts := float64(cfg.MinPoints)

	var pool []*candidate
	drawn := 0
	failed := 0
	forceExit := false

	for d.available >= cfg.MinPoints && !forceExit {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Generate candidates until a shape of MinPoints support would
		// almost surely have been sampled, or the pool already holds a
		// candidate whose expected support meets that bar.
		for {
			if overlookProbability(minPts, d.available, drawn, levels) <= cfg.Probability {
				break
			}
			if best := bestExpected(pool); best != nil &&
				overlookProbability(best.expected, d.available, drawn, levels) <= cfg.Probability {
				break
			}
			if drawn%1024 == 1023 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			produced := d.generateCandidates(&pool, kinds, maxSample, cfg)
			drawn++
			if produced {
				failed = 0
			} else {
				failed++
				if failed > maxFailuresInARow {
					d.logger.Debugf("no progress after %d failed draws; stopping", failed)
					forceExit = true
					break
				}
			}
		}

		if len(pool) == 0 {
			if forceExit || overlookProbability(minPts, d.available, drawn, levels) <= cfg.Probability {
				break
			}
			continue
		}

		best := d.selectBest(pool, cfg)

		// Verify the winner over the whole cloud at the widened
		// tolerance, then keep only its largest spatial cluster.
		_, matched := d.global.score(
			best.surface, d.assigned, cfg.FitToleranceMultiplier*cfg.Epsilon, cfg.NormalThreshold)
		claim := largestConnectedComponent(best.surface, d.cloud, matched, cfg.ClusterEpsilon)

		if len(claim) >= cfg.MinPoints &&
			overlookProbability(best.expected, d.available, drawn, levels) <= cfg.Probability {
			d.commit(best.surface, claim)
			pool = d.rewriteCandidates(pool, best, cfg)
			d.logger.Debugf("committed %s claiming %d points, %d still available",
				best.surface.Kind(), len(claim), d.available)
		} else {
			pool = removeCandidate(pool, best)
			failed++
			if failed > maxFailuresInARow {
				forceExit = true
			}
		}

		if overlookProbability(minPts, d.available, drawn, levels) <= cfg.Probability {
			break
		}
	}

	d.logger.Infof("detection finished: %d shapes extracted, %d of %d points unassigned after %d draws",
		len(d.shapes), d.available, d.cloud.Size(), drawn)
	return nil
}

// generateCandidates draws one minimal sample and offers it to every
// registered kind; fitted candidates with enough potential support enter
// the pool. It reports whether any candidate was pooled.
func (d *Detector) generateCandidates(
	pool *[]*candidate,
	kinds []shape.Kind,
	maxSample int,
	cfg Config,
) bool {
	seedIdx, ok := d.randomUnassigned()
	if !ok {
		return false
	}
	level := d.rng.Intn(d.global.maxLevel + 1)
	sample, ok := d.global.drawSampleFromCell(d.rng, d.cloud.At(seedIdx), level, maxSample, d.assigned)
	if !ok {
		return false
	}
	points := make([]r3.Vector, len(sample))
	normals := make([]r3.Vector, len(sample))
	for i, idx := range sample {
		points[i] = d.cloud.At(int(idx))
		normals[i] = d.cloud.Normal(int(idx))
	}

	produced := false
	for _, kind := range kinds {
		k := kind.SampleSize()
		surface, ok := kind.Fit(points[:k], normals[:k], cfg.Epsilon, cfg.NormalThreshold)
		if !ok {
			continue
		}
		cand := newCandidate(surface, d.seq, d.available)
		d.seq++
		d.improveBound(cand, cfg)
		if cand.upper >= float64(cfg.MinPoints) {
			*pool = append(*pool, cand)
			produced = true
		}
	}
	return produced
}

// randomUnassigned picks an unassigned point index uniformly.
func (d *Detector) randomUnassigned() (int, bool) {
	if d.available == 0 {
		return 0, false
	}
	n := d.cloud.Size()
	for try := 0; try < 32; try++ {
		i := d.rng.Intn(n)
		if d.assigned[i] == unassignedID {
			return i, true
		}
	}
	start := d.rng.Intn(n)
	for off := 0; off < n; off++ {
		i := (start + off) % n
		if d.assigned[i] == unassignedID {
			return i, true
		}
	}
	return 0, false
}

// improveBound scores the candidate on its next subset and tightens its
// support interval. It reports false once every subset is inspected.
func (d *Detector) improveBound(c *candidate, cfg Config) bool {
	if c.nextSubset >= d.ladder.count() {
		return false
	}
	_, matched := d.ladder.trees[c.nextSubset].score(
		c.surface, d.assigned, cfg.Epsilon, cfg.NormalThreshold)
	c.matched = append(c.matched, matched...)
	c.score = len(c.matched)
	c.nextSubset++
	if c.nextSubset == d.ladder.count() {
		full := float64(c.score)
		c.setBounds(full, full, full)
	} else {
		c.setBounds(supportBounds(c.score, d.inspectedAvailable(c.nextSubset), d.available))
	}
	return true
}

// inspectedAvailable sums the unassigned points in subsets 0..upto-1.
func (d *Detector) inspectedAvailable(upto int) int {
	total := 0
	for s := 0; s < upto; s++ {
		total += d.subsetAvailable[s]
	}
	return total
}

// selectBest refines the pool until the leading candidate's lower bound
// clears every rival's upper bound, or no refinement can change the
// order, and returns the leader.
func (d *Detector) selectBest(pool []*candidate, cfg Config) *candidate {
	for {
		sortCandidates(pool)
		best := pool[0]
		progressed := d.improveBound(best, cfg)
		for _, c := range pool[1:] {
			if c.upper < best.lower {
				break
			}
			if d.improveBound(c, cfg) {
				progressed = true
			}
		}
		sortCandidates(pool)
		best = pool[0]
		if len(pool) == 1 || best.lower > pool[1].upper || !progressed {
			return best
		}
	}
}

// commit claims the points for a new shape and updates the availability
// counters.
func (d *Detector) commit(surface shape.Surface, claim []int32) {
	id := int32(len(d.shapes))
	indices := make([]int, len(claim))
	for i, idx := range claim {
		d.assigned[idx] = id
		d.subsetAvailable[d.ladder.subsetOf[idx]]--
		indices[i] = int(idx)
	}
	d.available -= len(claim)
	d.shapes = append(d.shapes, ExtractedShape{Surface: surface, Indices: indices})
}

// rewriteCandidates drops newly-assigned points from every surviving
// candidate and recomputes its bounds against the shrunken available
// set; candidates that can no longer reach MinPoints are discarded.
func (d *Detector) rewriteCandidates(pool []*candidate, committed *candidate, cfg Config) []*candidate {
	kept := make([]*candidate, 0, len(pool))
	for _, c := range pool {
		if c == committed {
			continue
		}
		filtered := c.matched[:0]
		for _, idx := range c.matched {
			if d.assigned[idx] == unassignedID {
				filtered = append(filtered, idx)
			}
		}
		c.matched = filtered
		c.score = len(filtered)
		if c.nextSubset >= d.ladder.count() {
			full := float64(c.score)
			c.resetBounds(full, full, full)
		} else {
			low, high, expected := supportBounds(c.score, d.inspectedAvailable(c.nextSubset), d.available)
			c.resetBounds(low, high, expected)
		}
		if c.upper < float64(cfg.MinPoints) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

func sortCandidates(pool []*candidate) {
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].upper != pool[j].upper {
			return pool[i].upper > pool[j].upper
		}
		return pool[i].seq < pool[j].seq
	})
}

func bestExpected(pool []*candidate) *candidate {
	var best *candidate
	for _, c := range pool {
		if best == nil || c.expected > best.expected {
			best = c
		}
	}
	return best
}

func removeCandidate(pool []*candidate, victim *candidate) []*candidate {
	out := pool[:0]
	for _, c := range pool {
		if c != victim {
			out = append(out, c)
		}
	}
	return out
}
