// Command n2kreader claims a logical address on a SocketCAN interface,
// defends it, and prints decoded PGNs as they arrive.
package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/wavesense/n2k"
	"github.com/wavesense/n2k/adapters/clock"
	"github.com/wavesense/n2k/adapters/socketcan"
	"github.com/wavesense/n2k/addressmanager"
	"github.com/wavesense/n2k/discovery"
	"github.com/wavesense/n2k/pgns"
)

func main() {
	ifaceName := flag.String("iface", "can0", "SocketCAN interface name")
	preferred := flag.Uint("preferred", 42, "preferred NMEA 2000 source address (0-247)")
	uniqueNumber := flag.Uint64("unique-number", 1, "NAME unique number (21 bits)")
	manufacturerCode := flag.Uint("manufacturer-code", 2046, "NAME manufacturer code (11 bits)")
	deviceFunction := flag.Uint("device-function", 130, "NAME device function")
	deviceClass := flag.Uint("device-class", 25, "NAME device class")
	industryGroup := flag.Uint("industry-group", 4, "NAME industry group (4 = Marine)")
	aac := flag.Bool("aac", true, "NAME is arbitrary address capable")
	discoverOnly := flag.Bool("discover", false, "broadcast an ISO request for PGN 60928, print the responding nodes, then exit")
	pgnFilter := flag.String("filter", "", "comma separated list of PGNs to print, empty prints everything decodable")
	outputFormat := flag.String("output-format", "json", "in which format decoded packets are printed out (json, hex)")
	throttle := flag.Duration("throttle", 0, "throttle output of messages by PGN into given duration window")
	flag.Parse()

	switch *outputFormat {
	case "json", "hex":
	default:
		log.Fatal("# unknown output format given\n")
	}

	var filter pgnFilters
	if *pgnFilter != "" {
		var err error
		filter, err = parsePgnFilters(*pgnFilter)
		if err != nil {
			log.Fatalf("# invalid pgn filter given: %v\n", err)
		}
		fmt.Printf("# Using PGN filter: %v\n", filter)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Printf("# Opening SocketCAN interface: %v\n", *ifaceName)
	bus, err := socketcan.Open(*ifaceName)
	if err != nil {
		log.Fatal(err)
	}
	defer bus.Close()

	timer := clock.RealTimer{}

	name := n2k.NewNameBuilder().
		WithUniqueNumber(uint32(*uniqueNumber)).
		WithManufacturerCode(uint16(*manufacturerCode)).
		WithDeviceFunction(uint8(*deviceFunction)).
		WithDeviceClass(uint8(*deviceClass)).
		WithIndustryGroup(uint8(*industryGroup)).
		WithArbitraryAddressCapable(*aac).
		Build()

	if *discoverOnly {
		runDiscovery(ctx, bus, timer)
		return
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync()

	fmt.Printf("# Claiming address, preferred: %v\n", *preferred)
	mgr, err := addressmanager.New(ctx, bus, timer, name, uint8(*preferred), logger)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("# Claimed NMEA 2000 address: %v\n", mgr.CurrentAddress())

	fmt.Printf("# Starting STDIN process\n")
	go handleSTDIO(ctx, bus, timer, mgr)

	registry := defaultRegistry()
	assembler := n2k.NewFastPacketAssembler()

	throttled := map[uint64]time.Time{}
	msgCount := uint64(0)
	errorCount := uint64(0)
	for {
		frame, err := mgr.Recv(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			errorCount++
			fmt.Printf("# Error Recv: %v\n", err)
			if errorCount > 20 {
				break
			}
			continue
		}
		msgCount++
		errorCount = 0

		pgn := frame.ID.PGN()
		if !filter.matches(pgn) {
			continue
		}

		if *throttle > 0 {
			key := uint64(pgn)<<8 | uint64(frame.ID.Source())
			now := time.Now()
			if last, ok := throttled[key]; ok && now.Before(last) {
				continue
			}
			throttled[key] = now.Add(*throttle)
		}

		data, decoded, err := decodeFrame(registry, assembler, frame)
		if err != nil {
			fmt.Printf("# Error decoding PGN %v from source %v: %v\n", pgn, frame.ID.Source(), err)
			continue
		}
		if !decoded {
			continue
		}

		printDecoded(*outputFormat, frame, data)
	}
	fmt.Printf("# Finishing, number of processed messages: %v\n", msgCount)
}

func runDiscovery(ctx context.Context, bus n2k.CanBus, timer n2k.Timer) {
	out := make([]discovery.Discovered, 64)
	n, err := discovery.Discover(ctx, bus, timer, out)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("# Discovered %v node(s)\n", n)
	for _, d := range out[:n] {
		fmt.Printf("# node: source=%v name=%v aac=%v marine=%v\n", d.SourceAddress, uint64(d.Name), d.Name.IsArbitraryAddressCapable(), d.Name.IsMarine())
	}
}

func handleSTDIO(ctx context.Context, bus n2k.CanBus, timer n2k.Timer, mgr *addressmanager.Manager) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "!nodes":
			runDiscovery(ctx, bus, timer)
		case line == "!defend":
			if err := mgr.Defend(ctx); err != nil {
				fmt.Printf("# Error defending address: %v\n", err)
			}
		case line == "!reclaim":
			if err := mgr.Reclaim(ctx); err != nil {
				fmt.Printf("# Error reclaiming address: %v\n", err)
			} else {
				fmt.Printf("# Reclaimed address: %v\n", mgr.CurrentAddress())
			}
		default:
			fmt.Printf("# Unknown command: %v\n", line)
		}
	}
}

// pgnEntry binds a PGN's wire framing (Fast Packet or single-frame) to a
// factory for a fresh, zero-valued decode target.
type pgnEntry struct {
	fastPacket bool
	new        func() n2k.PgnData
}

func defaultRegistry() map[uint32]pgnEntry {
	return map[uint32]pgnEntry{
		127251: {fastPacket: false, new: func() n2k.PgnData { return pgns.NewRateOfTurn() }},
		129540: {fastPacket: true, new: func() n2k.PgnData { return pgns.NewSatsInView() }},
	}
}

// decodeFrame looks frame's PGN up in registry, reassembling Fast Packet
// fragments through assembler as needed, and reports whether a complete
// decode is available yet.
func decodeFrame(registry map[uint32]pgnEntry, assembler *n2k.FastPacketAssembler, frame n2k.CanFrame) (n2k.PgnData, bool, error) {
	entry, ok := registry[frame.ID.PGN()]
	if !ok {
		return nil, false, nil
	}

	payload := frame.Payload()
	if entry.fastPacket {
		switch assembler.ProcessFrame(frame.ID.Source(), payload) {
		case n2k.MessageComplete:
			payload = assembler.Completed().Bytes()
		default:
			return nil, false, nil
		}
	}

	data := entry.new()
	if err := n2k.Deserialize(data, payload, data.Descriptor()); err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func printDecoded(outputFormat string, frame n2k.CanFrame, data n2k.PgnData) {
	switch outputFormat {
	case "hex":
		fmt.Printf("%v,%v,%v,%v\n", frame.ID.PGN(), frame.ID.Source(), frame.ID.Priority(), hex.EncodeToString(frame.Payload()))
	default:
		envelope := struct {
			PGN    uint32      `json:"pgn"`
			Source uint8       `json:"source"`
			Fields n2k.PgnData `json:"fields"`
		}{PGN: frame.ID.PGN(), Source: frame.ID.Source(), Fields: data}
		b, err := json.Marshal(envelope)
		if err != nil {
			fmt.Printf("# Error marshalling PGN %v: %v\n", frame.ID.PGN(), err)
			return
		}
		fmt.Printf("%s\n", b)
	}
}

type pgnFilters []uint32

func parsePgnFilters(s string) (pgnFilters, error) {
	result := make(pgnFilters, 0, 4)
	for _, p := range strings.Split(s, ",") {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PGN in filter: %w", err)
		}
		result = append(result, uint32(v))
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result, nil
}

func (f pgnFilters) matches(pgn uint32) bool {
	if len(f) == 0 {
		return true
	}
	for _, p := range f {
		if p == pgn {
			return true
		}
	}
	return false
}
