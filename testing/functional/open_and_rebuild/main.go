package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bgrewell/usage"
	"github.com/mlaforet/cdkit"
	"github.com/mlaforet/cdkit/pkg/iso9660/boot"
	"github.com/mlaforet/cdkit/pkg/iso9660/descriptor"
	"github.com/mlaforet/cdkit/pkg/logging"
	"github.com/mlaforet/cdkit/pkg/option"
)

// compareDecoded reports whether two decoded structures carry the same
// values, comparing their JSON forms so pointer fields compare by value.
func compareDecoded(name string, decoded, redecoded interface{}) bool {
	decodedJSON, err := json.Marshal(decoded)
	if err != nil {
		fmt.Printf("FAIL %s: %v\n", name, err)
		return false
	}
	redecodedJSON, err := json.Marshal(redecoded)
	if err != nil {
		fmt.Printf("FAIL %s: %v\n", name, err)
		return false
	}
	if !bytes.Equal(decodedJSON, redecodedJSON) {
		fmt.Printf("MISMATCH %s\n  decoded:   %s\n  redecoded: %s\n", name, decodedJSON, redecodedJSON)
		return false
	}
	fmt.Printf("OK %s\n", name)
	return true
}

func main() {

	u := usage.NewUsage(
		usage.WithApplicationName("open_and_rebuild"),
		usage.WithApplicationDescription("open_and_rebuild is a functional testing application that is part of cdkit and is designed to verify that structures decoded from a real image marshal back to sectors that decode to the same values."),
	)
	help := u.AddBooleanOption("h", "help", false, "Display this help message", "", nil)
	input := u.AddArgument(1, "input", "The input ISO file to run the tests against", "")
	parsed := u.Parse()

	if !parsed {
		u.PrintError(fmt.Errorf("failed to parse arguments"))
		os.Exit(1)
	}

	if *help {
		u.PrintUsage()
		os.Exit(0)
	}

	if input == nil || *input == "" {
		u.PrintError(fmt.Errorf("location of the input iso file <input> must be provided"))
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.NewSimpleLogger(os.Stderr, logging.LEVEL_DEBUG, true))
	img, err := cdkit.Open(*input, option.WithLogger(logger))
	if err != nil {
		fmt.Printf("Failed to open ISO file: %s\n", err)
		os.Exit(1)
	}
	defer img.Close()

	ok := true
	set := img.Descriptors

	if set.Primary != nil {
		sector, err := set.Primary.Marshal()
		if err != nil {
			fmt.Printf("FAIL primary volume descriptor: %s\n", err)
			ok = false
		} else {
			redecoded := &descriptor.PrimaryVolumeDescriptor{}
			if err := redecoded.Unmarshal(sector); err != nil {
				fmt.Printf("FAIL primary volume descriptor: %s\n", err)
				ok = false
			} else {
				ok = compareDecoded("primary volume descriptor", set.Primary, redecoded) && ok
			}
		}
	}

	if set.Boot != nil {
		sector, err := set.Boot.Marshal()
		if err != nil {
			fmt.Printf("FAIL boot record: %s\n", err)
			ok = false
		} else {
			redecoded := &descriptor.BootRecordDescriptor{}
			if err := redecoded.Unmarshal(sector); err != nil {
				fmt.Printf("FAIL boot record: %s\n", err)
				ok = false
			} else {
				ok = compareDecoded("boot record", set.Boot, redecoded) && ok
			}
		}
	}

	if set.Terminator != nil {
		sector, err := set.Terminator.Marshal()
		if err != nil {
			fmt.Printf("FAIL set terminator: %s\n", err)
			ok = false
		} else {
			redecoded := &descriptor.VolumeDescriptorSetTerminator{}
			if err := redecoded.Unmarshal(sector); err != nil {
				fmt.Printf("FAIL set terminator: %s\n", err)
				ok = false
			} else {
				ok = compareDecoded("set terminator", set.Terminator, redecoded) && ok
			}
		}
	}

	if img.Catalog != nil {
		sector, err := img.Catalog.Marshal()
		if err != nil {
			fmt.Printf("FAIL boot catalog: %s\n", err)
			ok = false
		} else {
			redecoded := &boot.Catalog{}
			if err := redecoded.Unmarshal(sector); err != nil {
				fmt.Printf("FAIL boot catalog: %s\n", err)
				ok = false
			} else {
				ok = compareDecoded("boot catalog", img.Catalog, redecoded) && ok
			}
		}
	}

	if !ok {
		os.Exit(1)
	}
}
