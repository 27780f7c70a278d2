package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/ibrahmsql/phobos/scan"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	debug                bool
	timeoutMS            int = 1000
	batchSize            int
	maxRetries           int
	portSelection        string
	excludePortSelection string
	scanType                 = "stealth"
	randomOrder          bool
	hideUnavailableHosts bool
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&hideUnavailableHosts, "up-only", "u", hideUnavailableHosts, "Omit output for hosts with no open ports")
	rootCmd.PersistentFlags().StringVarP(&scanType, "scan-type", "s", scanType, "Scan type. Must be one of stealth, connect")
	rootCmd.PersistentFlags().BoolVarP(&debug, "verbose", "v", debug, "Enable verbose logging")
	rootCmd.PersistentFlags().IntVarP(&timeoutMS, "timeout-ms", "t", timeoutMS, "Per-probe scan timeout in MS")
	rootCmd.PersistentFlags().IntVarP(&batchSize, "workers", "w", batchSize, "Parallel probes in flight. 0 lets phobos size this from the process' file descriptor limit")
	rootCmd.PersistentFlags().IntVarP(&maxRetries, "retries", "r", maxRetries, "Max attempts per probe. 0 picks a default based on port count")
	rootCmd.PersistentFlags().StringVarP(&portSelection, "ports", "p", portSelection, "Ports to scan. Comma separated, can use hyphens e.g. 22,80,443,8080-8090")
	rootCmd.PersistentFlags().StringVarP(&excludePortSelection, "exclude-ports", "", excludePortSelection, "Ports to exclude from the scan, same syntax as --ports")
	rootCmd.PersistentFlags().BoolVarP(&randomOrder, "random-order", "", randomOrder, "Visit the address/port cross product in shuffled order instead of serially")
}

func techniqueFor(scanTypeStr string) (scan.Technique, error) {
	switch strings.ToLower(scanTypeStr) {
	case "stealth", "syn", "fast":
		return scan.TechniqueSYN, nil
	case "connect":
		return scan.TechniqueConnect, nil
	}

	return 0, fmt.Errorf("unknown scan type '%s'", scanTypeStr)
}

var rootCmd = &cobra.Command{
	Use:   "phobos",
	Short: "Phobos is a IP/port scanner",
	Long:  `An IP/port scanner for identifying hosts/services remotely.`,
	Run: func(cmd *cobra.Command, args []string) {
		if debug {
			log.SetLevel(log.DebugLevel)
		}

		if len(args) == 0 {
			fmt.Println("Please specify a target")
			os.Exit(1)
		}

		ports, err := getPorts(portSelection)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		excludePorts, err := getExcludePorts(excludePortSelection)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		technique, err := techniqueFor(scanType)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		if technique == scan.TechniqueSYN && !scan.HasRawSocketPrivilege() {
			log.Debugf("syn scan requested without raw socket privilege; engine will fall back to connect")
		}

		addresses, err := expandTargets(args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		order := scan.OrderSerial
		if randomOrder {
			order = scan.OrderRandom
		}

		cfg := scan.ScanConfig{
			Addresses:    addresses,
			Ports:        ports,
			ExcludePorts: excludePorts,
			Timeout:      time.Millisecond * time.Duration(timeoutMS),
			MaxRetries:   maxRetries,
			BatchSize:    batchSize,
			ScanOrder:    order,
			Technique:    technique,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		startTime := time.Now()
		fmt.Printf("\nStarting scan at %s\n\n", startTime.String())
		log.Debugf("scanning %d addresses over %d ports", len(addresses), len(ports))

		results, stats, err := scan.NewEngine(log.StandardLogger()).Scan(ctx, cfg)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		for _, result := range results {
			if !hideUnavailableHosts || len(result.OpenPorts) > 0 {
				printHostResult(result)
			}
		}

		printSummary(stats)
		fmt.Printf("Scan complete in %s.\n", time.Since(startTime).String())
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// getExcludePorts parses --exclude-ports, an unset flag meaning "exclude
// nothing" rather than getPorts' "default to the well-known port list" —
// an empty exclusion set, not scan.DefaultPorts, is the correct zero value
// here.
func getExcludePorts(selection string) ([]int, error) {
	if selection == "" {
		return nil, nil
	}

	return getPorts(selection)
}

func getPorts(selection string) ([]int, error) {
	if selection == "" {
		return scan.DefaultPorts, nil
	}
	ports := []int{}
	ranges := strings.Split(selection, ",")
	for _, r := range ranges {
		r = strings.TrimSpace(r)
		if strings.Contains(r, "-") {
			parts := strings.Split(r, "-")
			if len(parts) != 2 {
				return nil, fmt.Errorf("invalid port selection segment: '%s'", r)
			}

			p1, err := strconv.Atoi(parts[0])
			if err != nil {
				return nil, fmt.Errorf("invalid port number: '%s'", parts[0])
			}

			p2, err := strconv.Atoi(parts[1])
			if err != nil {
				return nil, fmt.Errorf("invalid port number: '%s'", parts[1])
			}

			if p1 > p2 {
				return nil, fmt.Errorf("invalid port range: %d-%d", p1, p2)
			}

			for i := p1; i <= p2; i++ {
				ports = append(ports, i)
			}

		} else {
			port, err := strconv.Atoi(r)
			if err != nil {
				return nil, fmt.Errorf("invalid port number: '%s'", r)
			}
			ports = append(ports, port)
		}
	}
	return ports, nil
}
