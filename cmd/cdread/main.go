package main

import (
	"fmt"
	"os"
	"time"

	"github.com/bgrewell/usage"
	"github.com/mlaforet/cdkit"
	"github.com/mlaforet/cdkit/pkg/iso9660/info"
	"github.com/mlaforet/cdkit/pkg/iso9660/validation"
	"github.com/mlaforet/cdkit/pkg/logging"
	"github.com/mlaforet/cdkit/pkg/option"
	"github.com/theckman/yacspin"
	"golang.org/x/term"
)

// truncateString truncates the input string to the specified max length.
// If truncation occurs, it prepends "..." to indicate the string has been shortened.
func truncateString(input string, maxLength int) string {
	if len(input) <= maxLength {
		return input
	}
	if maxLength <= 3 {
		return input[len(input)-maxLength:]
	}
	return "..." + input[len(input)-(maxLength-3):]
}

// InitializeSpinner sets up and starts the yacspin spinner.
func InitializeSpinner(useColor bool) (*yacspin.Spinner, error) {
	settings := yacspin.Config{
		Frequency:         100 * time.Millisecond,
		ShowCursor:        false,
		SpinnerAtEnd:      false,
		CharSet:           yacspin.CharSets[14],
		StopFailCharacter: "✗",
		StopCharacter:     "✓",
	}
	if useColor {
		settings.Colors = []string{"fgHiCyan"}
		settings.StopColors = []string{"fgHiGreen"}
		settings.StopFailColors = []string{"fgHiRed"}
	}

	spinner, err := yacspin.New(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create spinner: %w", err)
	}

	if err := spinner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start spinner: %w", err)
	}

	return spinner, nil
}

// printSummary writes the decoded descriptor fields, fitted to the terminal.
func printSummary(img *cdkit.Image) {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width = 80 // Default width
	}
	// Room for the widest label plus a margin.
	fieldWidth := width - 16
	if fieldWidth < 10 {
		fieldWidth = 10
	}

	set := img.Descriptors
	if set.Primary != nil {
		fmt.Printf("Volume:       %s\n", truncateString(set.Primary.VolumeIdentifier, fieldWidth))
		if set.Primary.SystemIdentifier != "" {
			fmt.Printf("System:       %s\n", truncateString(set.Primary.SystemIdentifier, fieldWidth))
		}
		fmt.Printf("Space:        %d blocks of %d bytes\n", set.Primary.VolumeSpaceSize, set.Primary.LogicalBlockSize)
		if set.Primary.ApplicationIdentifier != nil {
			fmt.Printf("Application:  %s\n", truncateString(*set.Primary.ApplicationIdentifier, fieldWidth))
		}
	} else {
		fmt.Println("Volume:       (no primary volume descriptor)")
	}
	if set.SupplementaryCount > 0 {
		fmt.Printf("Supplementary descriptors: %d (not decoded)\n", set.SupplementaryCount)
	}
	if set.PartitionCount > 0 {
		fmt.Printf("Partition descriptors: %d (not decoded)\n", set.PartitionCount)
	}

	if set.Boot != nil {
		fmt.Printf("Boot system:  %s\n", truncateString(set.Boot.BootSystemIdentifier, fieldWidth))
	}
	if img.Catalog != nil {
		fmt.Printf("Boot catalog: %s, %d entries\n",
			img.Catalog.Validation.PlatformID.String(), img.Catalog.EntryCount())
		for _, section := range img.Catalog.Sections {
			name := section.Header.Identifier
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Printf("  Section %s: %s, %d entries\n",
				truncateString(name, fieldWidth), section.Header.PlatformID.String(), len(section.Entries))
		}
	}
}

// runChecks prints every conformance finding and reports whether any came up.
func runChecks(img *cdkit.Image) bool {
	findings := validation.CheckDescriptorSet(img.Descriptors)
	if img.HasElTorito() {
		sector, err := img.BootCatalogSector()
		if err != nil {
			findings = append(findings, fmt.Errorf("failed to read boot catalog sector: %w", err))
		} else {
			findings = append(findings, validation.CheckBootCatalogSector(sector)...)
		}
	}

	if len(findings) == 0 {
		fmt.Println("\nConformance: OK")
		return false
	}
	fmt.Printf("\nConformance: %d finding(s)\n", len(findings))
	for _, finding := range findings {
		fmt.Printf("  - %v\n", finding)
	}
	return true
}

func main() {

	u := usage.NewUsage(
		usage.WithApplicationName("cdread"),
		usage.WithApplicationDescription("cdread inspects ISO 9660 images: it walks the volume descriptor sequence and prints the decoded descriptors, the El Torito boot catalog and the image layout."),
	)
	help := u.AddBooleanOption("h", "help", false, "Show this help message", "optional", nil)
	verbose := u.AddBooleanOption("v", "verbose", false, "Print verbose (debug) output", "", nil)
	trace := u.AddBooleanOption("vv", "trace", false, "Print trace output", "", nil)
	jsonOut := u.AddBooleanOption("j", "json", false, "Print the image layout as JSON", "", nil)
	hexOffsets := u.AddBooleanOption("x", "hex", false, "Print offsets in hexadecimal", "", nil)
	verify := u.AddBooleanOption("V", "verify", false, "Run conformance checks on the descriptors and boot catalog", "", nil)
	noColor := u.AddBooleanOption("n", "no-color", false, "Disable colored output", "", nil)
	path := u.AddArgument(1, "iso-path", "Path to the ISO image to inspect", "")
	parsed := u.Parse()

	if !parsed {
		u.PrintError(fmt.Errorf("failed to parse arguments"))
		os.Exit(1)
	}

	if *help {
		u.PrintUsage()
		os.Exit(0)
	}

	if path == nil || *path == "" {
		u.PrintError(fmt.Errorf("location of the iso file <iso-path> must be provided"))
		os.Exit(1)
	}

	useColor := !*noColor

	logger := logging.DefaultLogger()
	if *trace {
		logger = logging.NewLogger(logging.NewSimpleLogger(os.Stderr, logging.LEVEL_TRACE, useColor))
	} else if *verbose {
		logger = logging.NewLogger(logging.NewSimpleLogger(os.Stderr, logging.LEVEL_DEBUG, useColor))
	}

	// The spinner would interleave with JSON on stdout, so skip it there.
	var spinner *yacspin.Spinner
	if !*jsonOut {
		var err error
		spinner, err = InitializeSpinner(useColor)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize spinner: %v\n", err)
		} else {
			spinner.Message(fmt.Sprintf(" Scanning %s", truncateString(*path, 60)))
		}
	}

	img, err := cdkit.Open(*path, option.WithLogger(logger))
	if err != nil {
		if spinner != nil {
			spinner.StopFailMessage(fmt.Sprintf(" Failed to read image: %v", err))
			spinner.StopFail()
		} else {
			fmt.Fprintf(os.Stderr, "Failed to read image: %v\n", err)
		}
		os.Exit(1)
	}
	defer img.Close()

	if spinner != nil {
		spinner.StopMessage(fmt.Sprintf(" Parsed %d volume descriptors", len(img.Descriptors.Locations)))
		spinner.Stop()
	}

	layout := info.BuildImageLayout(img.Descriptors, img.Catalog)

	if *jsonOut {
		fmt.Println(layout.PrettyJSON())
	} else {
		printSummary(img)
		layout.Print(os.Stdout, useColor, *hexOffsets)
	}

	if *verify {
		if failed := runChecks(img); failed {
			os.Exit(1)
		}
	}
}
