// Package config parses the process-wide environment overrides listed in
// the codec's external interface and caches them as an immutable
// snapshot, read once at first access. This mirrors the original C++
// codec's parse_lz_env_int pattern: an invalid or out-of-range value
// silently falls back to the documented default rather than erroring.
package config

import (
	"os"
	"strconv"
	"sync"
)

// Snapshot is the frozen set of environment-derived tuning options. All
// fields are immutable once returned by Get.
type Snapshot struct {
	RouteCompeteChroma             bool
	RouteCompetePhotoChroma        bool
	RouteCompeteChromaConservative bool
	FastRouteCompete               bool
	FastRouteCompeteChroma         bool
	FastRouteCompeteConservative   bool
	FastLZNiceLength               int
	FastLZMatchStrategy            int
	MaxLZMatchStrategy             int
	FastFilterLoLZProbe            bool
	BalancedFilterLoLZProbe        bool
	MaxFilterLoLZProbe             bool
	ChromaMadMax                   int
	ChromaAvgRunMin                int
	NaturalUniqueMin               int
	NaturalAvgRunMax               int
	NaturalMadMin                  int
	NaturalEntropyMinX1000         int

	LZWindowSize     int
	LZChainDepth     int
	LZMinDistLen3    int
	LZBiasPermille   int
	LZNiceLength     int
	LZMatchStrategy  int

	LZOptMaxMatches           int
	LZOptLitMax               int
	LZOptMemcapMB             int
	LZOptProbeSrcMaxBytes     int
	LZOptProbeRatioMinX1000   int
	LZOptProbeRatioMaxX1000   int
	LZOptMinGainBytes         int

	ForceScalar bool
}

var (
	once     sync.Once
	snapshot Snapshot
)

// Get returns the process-wide configuration snapshot, parsing the
// environment on first call and caching the result for the lifetime of
// the process.
func Get() *Snapshot {
	once.Do(func() {
		snapshot = Snapshot{
			RouteCompeteChroma:             envBool("LOCO_ROUTE_COMPETE_CHROMA", true),
			RouteCompetePhotoChroma:        envBool("LOCO_ROUTE_COMPETE_PHOTO_CHROMA", false),
			RouteCompeteChromaConservative: envBool("LOCO_ROUTE_COMPETE_CHROMA_CONSERVATIVE", false),
			FastRouteCompete:               envBool("LOCO_FAST_ROUTE_COMPETE", false),
			FastRouteCompeteChroma:         envBool("LOCO_FAST_ROUTE_COMPETE_CHROMA", false),
			FastRouteCompeteConservative:   envBool("LOCO_FAST_ROUTE_COMPETE_CHROMA_CONSERVATIVE", true),
			FastLZNiceLength:               envInt("LOCO_FAST_LZ_NICE_LENGTH", 64, 4, 255),
			FastLZMatchStrategy:            envInt("LOCO_FAST_LZ_MATCH_STRATEGY", 0, 0, 1),
			MaxLZMatchStrategy:             envInt("LOCO_MAX_LZ_MATCH_STRATEGY", 1, 0, 2),
			FastFilterLoLZProbe:            envBool("LOCO_FAST_FILTER_LO_LZ_PROBE", false),
			BalancedFilterLoLZProbe:        envBool("LOCO_BALANCED_FILTER_LO_LZ_PROBE", true),
			MaxFilterLoLZProbe:             envBool("LOCO_MAX_FILTER_LO_LZ_PROBE", true),
			ChromaMadMax:                   envInt("LOCO_ROUTE_CHROMA_MAD_MAX", 12, 0, 65535),
			ChromaAvgRunMin:                envInt("LOCO_ROUTE_CHROMA_AVG_RUN_MIN", 4, 0, 65535),
			NaturalUniqueMin:               envInt("LOCO_NATURAL_UNIQUE_MIN", 48, 0, 65536),
			NaturalAvgRunMax:               envInt("LOCO_NATURAL_AVG_RUN_MAX", 6, 0, 65535),
			NaturalMadMin:                  envInt("LOCO_NATURAL_MAD_MIN", 3, 0, 65535),
			NaturalEntropyMinX1000:         envInt("LOCO_NATURAL_ENTROPY_MIN", 3500, 0, 8000),

			LZWindowSize:    envInt("LOCO_LZ_WINDOW_SIZE", 65535, 1024, 65535),
			LZChainDepth:    envInt("LOCO_LZ_CHAIN_DEPTH", 32, 1, 128),
			LZMinDistLen3:   envInt("LOCO_LZ_MIN_DIST_LEN3", 128, 0, 65535),
			LZBiasPermille:  envInt("LOCO_LZ_BIAS_PERMILLE", 990, 900, 1100),
			LZNiceLength:    envInt("LOCO_LZ_NICE_LENGTH", 255, 4, 255),
			LZMatchStrategy: envInt("LOCO_LZ_MATCH_STRATEGY", 0, 0, 2),

			LZOptMaxMatches:         envInt("LOCO_LZ_OPTPARSE_MAX_MATCHES", 4, 1, 32),
			LZOptLitMax:             envInt("LOCO_LZ_OPTPARSE_LIT_MAX", 128, 1, 255),
			LZOptMemcapMB:           envInt("LOCO_LZ_OPTPARSE_MEMCAP_MB", 64, 4, 1024),
			LZOptProbeSrcMaxBytes:   envInt("LOCO_LZ_OPTPARSE_PROBE_SRC_MAX", 2*1024*1024, 65536, 64*1024*1024),
			LZOptProbeRatioMinX1000: envInt("LOCO_LZ_OPTPARSE_PROBE_RATIO_MIN", 20, 0, 1000),
			LZOptProbeRatioMaxX1000: envInt("LOCO_LZ_OPTPARSE_PROBE_RATIO_MAX", 80, 0, 1000),
			LZOptMinGainBytes:       envInt("LOCO_LZ_OPTPARSE_MIN_GAIN_BYTES", 512, 0, 1<<20),

			ForceScalar: envBool("LOCO_FORCE_SCALAR", false),
		}
	})
	return &snapshot
}

// envInt parses key from the environment, falling back to def on any
// parse error or out-of-range value.
func envInt(key string, def, min, max int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		return def
	}
	return v
}

// envBool parses key as "0"/"1"/"true"/"false", falling back to def.
func envBool(key string, def bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

// resetForTest clears the cached snapshot so tests can exercise
// different environment combinations. Test-only.
func resetForTest() {
	once = sync.Once{}
	snapshot = Snapshot{}
}
