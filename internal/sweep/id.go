package sweep

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Identifiers double as filesystem keys: the correlation-report filename
// stem and the scratch/marker directory names are all derived from them.
// Formatting therefore has to be canonical: -1 and -1.0 must serialize the
// same way, and two distinct combinations must never collide.

// FormatFreq renders a frequency cutoff in fixed-point form with at least
// one decimal, so that integral values keep a trailing ".0".
func FormatFreq(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatID builds the canonical job identifier for a parameter combination.
// Shape: LF{lowfreq}UF{upfreq}C{d1-d2-..}Mdis{maxdist}_{resolution}bp
func FormatID(lowfreq, upfreq float64, dcutoffs []int, maxdist, resolutionBp int) string {
	cuts := make([]string, len(dcutoffs))
	for i, d := range dcutoffs {
		cuts[i] = strconv.Itoa(d)
	}
	return fmt.Sprintf("LF%sUF%sC%sMdis%d_%dbp",
		FormatFreq(lowfreq), FormatFreq(upfreq), strings.Join(cuts, "-"), maxdist, resolutionBp)
}

// FormatMarkerID builds the marker-directory stem. The modelling engine
// names its working directory without the cutoff list, which is safe
// because the cutoff set is a pure function of maxdist within one sweep.
func FormatMarkerID(lowfreq, upfreq float64, maxdist, resolutionBp int) string {
	return fmt.Sprintf("LF%sUF%sMdis%d_%dbp",
		FormatFreq(lowfreq), FormatFreq(upfreq), maxdist, resolutionBp)
}

var idPattern = regexp.MustCompile(
	`^LF(-?\d+(?:\.\d+)?)UF(-?\d+(?:\.\d+)?)C(\d+(?:-\d+)*)Mdis(\d+)_(\d+)bp$`)

// ParsedID holds the numeric components recovered from a job identifier.
type ParsedID struct {
	LowFreq      float64
	UpFreq       float64
	DCutoffs     []int
	MaxDist      int
	ResolutionBp int
}

// ParseID recovers the parameter tuple from a canonical job identifier.
// The identifier is a derived filesystem key, never the source of truth,
// but round-tripping is still guaranteed for tooling that has only the
// report filename to go on.
func ParseID(id string) (ParsedID, error) {
	m := idPattern.FindStringSubmatch(id)
	if m == nil {
		return ParsedID{}, fmt.Errorf("malformed job identifier %q", id)
	}
	lf, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return ParsedID{}, fmt.Errorf("job identifier %q: lowfreq: %w", id, err)
	}
	uf, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return ParsedID{}, fmt.Errorf("job identifier %q: upfreq: %w", id, err)
	}
	var cuts []int
	for _, c := range strings.Split(m[3], "-") {
		d, err := strconv.Atoi(c)
		if err != nil {
			return ParsedID{}, fmt.Errorf("job identifier %q: dcutoff %q: %w", id, c, err)
		}
		cuts = append(cuts, d)
	}
	md, err := strconv.Atoi(m[4])
	if err != nil {
		return ParsedID{}, fmt.Errorf("job identifier %q: maxdist: %w", id, err)
	}
	res, err := strconv.Atoi(m[5])
	if err != nil {
		return ParsedID{}, fmt.Errorf("job identifier %q: resolution: %w", id, err)
	}
	return ParsedID{LowFreq: lf, UpFreq: uf, DCutoffs: cuts, MaxDist: md, ResolutionBp: res}, nil
}
