/*
Package demparser implements parsing Day of Defeat (GoldSrc) point-of-view
demo files into a dem.MatchReport.

The package layers on top of demdecoder, which only knows the demo
container framing (header, directory, frame walk). demparser owns
everything protocol-aware: the engine-message opcode table, the
dynamically-registered DoD user messages, and the match-reconstruction
state machine that turns the resulting event stream into a MatchReport.

The package is safe for concurrent use: ParseAll runs one decode per demo
in its own goroutine, and neither a sliceReader nor a decodeContext is ever
shared across a parse.
*/
package demparser

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/dodanalysis/dodrep/dem"
	"github.com/dodanalysis/dodrep/demparser/demdecoder"
	"github.com/dodanalysis/dodrep/dodlog"
)

// Version is a Semver2-compatible version of the parser, bumped whenever
// reconstruction semantics change in a way that could alter a previously
// produced MatchReport.
const Version = "v0.1.0"

// supportedProtocols lists the demo_protocol/network_protocol pairs this
// decoder has been validated against. A demo outside this set still
// decodes when Config.StrictProtocol is false.
var supportedProtocols = map[[2]uint32]bool{
	{5, 47}: true,
	{5, 48}: true,
}

// ParseFile parses a DoD demo file from disk using DefaultConfig.
func ParseFile(path string) (*dem.MatchReport, error) {
	return ParseFileConfig(path, dem.DefaultConfig)
}

// ParseFileConfig parses a DoD demo file from disk using the given config.
func ParseFileConfig(path string, cfg dem.Config) (*dem.MatchReport, error) {
	data, err := demdecoder.ReadAll(path)
	if err != nil {
		return nil, &IoError{Path: path, Err: err}
	}
	r, err := ParseConfig(data, cfg)
	if err != nil {
		return nil, err
	}
	r.DemoPath = path
	return r, nil
}

// Parse parses a DoD demo already loaded into memory using DefaultConfig.
func Parse(data []byte) (*dem.MatchReport, error) {
	return ParseConfig(data, dem.DefaultConfig)
}

// ParseConfig parses a DoD demo already loaded into memory using the given
// config.
func ParseConfig(data []byte, cfg dem.Config) (*dem.MatchReport, error) {
	return parseProtected(data, cfg)
}

// ParseAll parses multiple demo files concurrently, one goroutine per
// demo, bounded by GOMAXPROCS. The returned slice has the same length and
// order as paths; a failed demo's slot holds a nil report and its error is
// returned in the accompanying error slice at the same index.
func ParseAll(paths []string, cfg dem.Config) ([]*dem.MatchReport, []error) {
	reports := make([]*dem.MatchReport, len(paths))
	errs := make([]error, len(paths))

	sem := make(chan struct{}, max(1, runtime.GOMAXPROCS(0)))
	done := make(chan int, len(paths))

	for i, path := range paths {
		i, path := i, path
		sem <- struct{}{}
		go func() {
			defer func() { <-sem; done <- i }()
			reports[i], errs[i] = ParseFileConfig(path, cfg)
		}()
	}
	for range paths {
		<-done
	}

	return reports, errs
}

// parseProtected calls parse, but recovers from any panic (malformed
// input, or an implementation bug) and returns it as ErrParsing instead of
// crashing the caller. When the panic value is an error (such as the typed
// errors the sliceReader and message decoders panic with), the returned
// error wraps both ErrParsing and that value. Input is untrusted binary
// data.
func parseProtected(data []byte, cfg dem.Config) (r *dem.MatchReport, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			dodlog.Warn("recovered panic while parsing demo",
				dodlog.F("panic", fmt.Sprint(rec)),
				dodlog.F("stack", string(debug.Stack())),
			)
			r = nil
			if e, ok := rec.(error); ok {
				err = fmt.Errorf("%w: %w", ErrParsing, e)
			} else {
				err = ErrParsing
			}
		}
	}()

	return parse(data, cfg)
}

// parse decodes the container, walks every NETMSG frame across every
// directory entry in file order, and folds the resulting event stream into
// a MatchReport.
func parse(data []byte, cfg dem.Config) (*dem.MatchReport, error) {
	header, err := demdecoder.DecodeHeader(data)
	if err != nil {
		return nil, err
	}

	if cfg.StrictProtocol && !supportedProtocols[[2]uint32{header.DemoProtocol, header.NetworkProtocol}] {
		return nil, &UnsupportedProtocolError{DemoProtocol: header.DemoProtocol, NetworkProtocol: header.NetworkProtocol}
	}

	dirOffset, err := demdecoder.DirectoryOffset(data)
	if err != nil {
		return nil, err
	}
	entries, err := demdecoder.DecodeDirectory(data, dirOffset)
	if err != nil {
		return nil, err
	}

	ctx := newDecodeContext()
	ctx.mapName = header.MapName
	recon := newReconstructor()

	for _, entry := range entries {
		it := demdecoder.NewFrameIter(data, entry)
		for {
			frame, err := it.Next()
			if err == demdecoder.ErrNoMoreFrames {
				break
			}
			if err != nil {
				return nil, err
			}
			if !frame.Type.IsNetMsg() {
				continue
			}

			ctx.beginFrame(frame.Time, frame.Offset)
			decodeEngineMessages(newSliceReader(frame.NetMsgPayload), ctx)
		}
	}

	for _, evt := range ctx.events {
		recon.apply(evt)
	}

	players, weaponTallies, streaks := recon.finish(float64(ctx.frameTime))

	mapName := ctx.mapName
	if mapName == "" {
		mapName = header.MapName
	}

	report := dem.NewMatchReport(players, weaponTallies, streaks, recon.finalScore, mapName)
	report.DemoProtocol = header.DemoProtocol
	report.NetworkProtocol = header.NetworkProtocol
	report.AnalyzerVersion = Version
	report.ReportCreatedAt = time.Now()

	if cfg.KeepRawEvents {
		report.RawEvents = ctx.events
		report.Diagnostics = ctx.diagnostics
	}

	return report, nil
}
