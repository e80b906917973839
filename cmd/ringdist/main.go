// Command ringdist measures how evenly each ring algorithm spreads
// objects across servers, and how fast it builds and resolves.
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"net"
	"os"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jeffrey-xiao/hashrings"
)

func main() {
	var (
		configPath string
		servers    int
		objects    int
		verbose    bool
		csv        bool
	)
	flag.StringVar(&configPath,
		"config", "",
		"path to a YAML config file",
	)
	flag.IntVar(&servers,
		"servers", 0,
		"number of servers to place on each ring (overrides config)",
	)
	flag.IntVar(&objects,
		"objects", 0,
		"number of objects to spread (overrides config)",
	)
	flag.BoolVar(&verbose,
		"v", false,
		"be verbose",
	)
	flag.BoolVar(&csv,
		"csv", false,
		"print csv instead of a table",
	)
	flag.Parse()

	zcfg := zap.NewDevelopmentConfig()
	if !verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := DefaultConfig()
	if configPath != "" {
		cfg, err = Load(configPath)
		if err != nil {
			logger.Fatal("load config", zap.Error(err))
		}
	}
	if servers > 0 {
		cfg.Servers = servers
		cfg.Weights = nil
	}
	if objects > 0 {
		cfg.Objects = objects
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	names := makeServers(rng, cfg.Servers)
	logger.Info("servers ready", zap.Int("count", len(names)))

	points := makeObjects(rng, cfg.Objects)
	logger.Info("objects ready", zap.Int("count", len(points)))

	results := make([]result, 0, len(cfg.Algorithms))
	for _, a := range cfg.Algorithms {
		r, err := measure(a, cfg, names, points)
		if err != nil {
			logger.Fatal("measure", zap.String("algorithm", a), zap.Error(err))
		}
		logger.Info("measured",
			zap.String("algorithm", a),
			zap.Duration("build", r.build),
			zap.Float64("stddev", r.stddev),
		)
		results = append(results, r)
	}

	tw := tabwriter.NewWriter(os.Stdout, 2, 2, 2, ' ', 0)
	if !csv {
		fmt.Fprintln(tw, "algorithm\tbuild\tlookup/op\tstddev%\tmaxdiff%")
	}
	for _, r := range results {
		var (
			devPct  = r.stddev / float64(cfg.Objects) * 100
			diffPct = r.maxDiff / float64(cfg.Objects) * 100
			perOp   = r.lookup / time.Duration(cfg.Objects)
		)
		if csv {
			fmt.Fprintf(tw,
				"%s,\t%.3f,\t%d,\t%.4f,\t%.4f\n",
				r.name,
				r.build.Seconds()*1000,
				perOp.Nanoseconds(),
				devPct, diffPct,
			)
		} else {
			fmt.Fprintf(tw,
				"%s\t%s\t%s\t%.4f\t%.4f\n",
				r.name, r.build, perOp,
				devPct, diffPct,
			)
		}
	}
	tw.Flush()
}

type result struct {
	name    string
	build   time.Duration
	lookup  time.Duration
	stddev  float64
	maxDiff float64
}

// measure builds the named ring over the given servers, resolves every
// object through it and compares the resulting distribution against the
// expected share of each server.
func measure(name string, cfg *Config, names []string, points []hashrings.Item) (result, error) {
	var (
		build    time.Duration
		lookup   time.Duration
		counts   = make([]float64, len(names))
		expected = expectedShares(name, cfg)
	)

	resolve, build, err := buildRing(name, cfg, names)
	if err != nil {
		return result{}, err
	}

	start := time.Now()
	for _, p := range points {
		i, err := resolve(p)
		if err != nil {
			return result{}, err
		}
		counts[i]++
	}
	lookup = time.Since(start)

	var variance, maxDiff float64
	for i, c := range counts {
		d := c - expected[i]
		variance += d * d
		if math.Abs(d) > maxDiff {
			maxDiff = math.Abs(d)
		}
	}
	variance /= float64(len(names))

	return result{
		name:    name,
		build:   build,
		lookup:  lookup,
		stddev:  math.Sqrt(variance),
		maxDiff: maxDiff,
	}, nil
}

// buildRing constructs the named ring and returns a resolver mapping an
// object to a server index, together with the build latency.
func buildRing(name string, cfg *Config, names []string) (func(hashrings.Item) (int, error), time.Duration, error) {
	index := make(map[string]int, len(names))
	for i, s := range names {
		index[s] = i
	}
	byItem := func(x hashrings.Item) int {
		return index[string(x.(hashrings.StringItem))]
	}

	switch name {
	case "consistent":
		r := new(hashrings.ConsistentRing)
		start := time.Now()
		for _, s := range names {
			if err := r.InsertNode(hashrings.StringItem(s), cfg.Replicas); err != nil {
				return nil, 0, err
			}
		}
		return func(p hashrings.Item) (int, error) {
			x, err := r.GetNode(p)
			if err != nil {
				return 0, err
			}
			return byItem(x), nil
		}, time.Since(start), nil

	case "multi-probe":
		r, err := hashrings.NewMultiProbeRing(cfg.Probes)
		if err != nil {
			return nil, 0, err
		}
		start := time.Now()
		for _, s := range names {
			if err := r.InsertNode(hashrings.StringItem(s)); err != nil {
				return nil, 0, err
			}
		}
		return func(p hashrings.Item) (int, error) {
			x, err := r.GetNode(p)
			if err != nil {
				return 0, err
			}
			return byItem(x), nil
		}, time.Since(start), nil

	case "rendezvous":
		r := hashrings.NewRendezvousRing()
		start := time.Now()
		for _, s := range names {
			if err := r.InsertNode(hashrings.StringItem(s), 1); err != nil {
				return nil, 0, err
			}
		}
		return func(p hashrings.Item) (int, error) {
			x, err := r.GetNode(p)
			if err != nil {
				return 0, err
			}
			return byItem(x), nil
		}, time.Since(start), nil

	case "weighted-rendezvous":
		r := hashrings.NewWeightedRendezvousRing()
		start := time.Now()
		for i, s := range names {
			if err := r.InsertNode(hashrings.StringItem(s), cfg.Weights[i]); err != nil {
				return nil, 0, err
			}
		}
		return func(p hashrings.Item) (int, error) {
			x, err := r.GetNode(p)
			if err != nil {
				return 0, err
			}
			return byItem(x), nil
		}, time.Since(start), nil

	case "maglev":
		nodes := make([]hashrings.MaglevNode, len(names))
		for i, s := range names {
			nodes[i] = hashrings.MaglevNode{
				Item:   hashrings.StringItem(s),
				Weight: cfg.Weights[i],
			}
		}
		start := time.Now()
		r, err := hashrings.NewMaglevRing(nodes, cfg.TableSize)
		if err != nil {
			return nil, 0, err
		}
		return func(p hashrings.Item) (int, error) {
			return byItem(r.GetNode(p)), nil
		}, time.Since(start), nil

	case "jump":
		start := time.Now()
		r, err := hashrings.NewJumpRing(len(names))
		if err != nil {
			return nil, 0, err
		}
		return func(p hashrings.Item) (int, error) {
			return r.GetBucket(p), nil
		}, time.Since(start), nil

	case "carp":
		r := hashrings.NewCARPRing()
		start := time.Now()
		for i, s := range names {
			if err := r.InsertNode(hashrings.StringItem(s), cfg.Weights[i]); err != nil {
				return nil, 0, err
			}
		}
		return func(p hashrings.Item) (int, error) {
			x, err := r.GetNode(p)
			if err != nil {
				return 0, err
			}
			return byItem(x), nil
		}, time.Since(start), nil
	}
	return nil, 0, fmt.Errorf("unknown algorithm: %q", name)
}

// expectedShares returns the expected object count per server. Weighted
// algorithms get weight-proportional shares, the rest uniform ones.
func expectedShares(name string, cfg *Config) []float64 {
	shares := make([]float64, cfg.Servers)
	switch name {
	case "weighted-rendezvous", "maglev", "carp":
		var total float64
		for _, w := range cfg.Weights {
			total += w
		}
		for i, w := range cfg.Weights {
			shares[i] = float64(cfg.Objects) * w / total
		}
	default:
		for i := range shares {
			shares[i] = float64(cfg.Objects) / float64(cfg.Servers)
		}
	}
	return shares
}

func makeServers(rng *rand.Rand, n int) []string {
	names := make([]string, n)
	seen := make(map[string]bool)
	for i := 0; i < n; {
		var b [4]byte
		rng.Read(b[:])
		s := net.IPv4(b[0], b[1], b[2], b[3]).String()
		if seen[s] {
			continue
		}
		seen[s] = true
		names[i] = s
		i++
	}
	return names
}

func makeObjects(rng *rand.Rand, n int) []hashrings.Item {
	objects := make([]hashrings.Item, n)
	seen := make(map[string]bool)
	for i := 0; i < n; {
		s := fmt.Sprintf("%016x", rng.Uint64())
		if seen[s] {
			continue
		}
		seen[s] = true
		objects[i] = hashrings.StringItem(s)
		i++
	}
	return objects
}
