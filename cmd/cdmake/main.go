package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mlaforet/cdkit"
	"github.com/mlaforet/cdkit/pkg/iso9660/boot"
	"github.com/mlaforet/cdkit/pkg/option"
	"github.com/spf13/cobra"
)

var (
	output        string
	catalogSector uint32
	imageSector   uint32
	imageSectors  uint16
	platform      string
	media         string
	manufacturer  string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "cdmake",
	Short:         "cdmake assembles ISO 9660 boot structures",
	Long:          ``,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// skelCmd represents the skel command
var skelCmd = &cobra.Command{
	Use:   "skel",
	Short: "Emit a minimal 3-sector bootable image skeleton",
	Long: `Emit the three sectors a boot probe inspects: a primary volume descriptor
header, an El Torito boot record and the boot catalog. The output is a stub
meant to sit at sector 16 of an image, with the boot image recorded at the
sector the catalog entries advertise.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bootPlatform, err := parsePlatform(platform)
		if err != nil {
			return err
		}
		bootMedia, err := parseMedia(media)
		if err != nil {
			return err
		}

		skeleton, err := cdkit.Skeleton(
			option.WithCatalogSector(catalogSector),
			option.WithBootImage(imageSector, imageSectors),
			option.WithPlatform(bootPlatform),
			option.WithBootMedia(bootMedia),
			option.WithManufacturer(manufacturer),
		)
		if err != nil {
			return err
		}

		if output == "-" {
			_, err = os.Stdout.Write(skeleton)
			return err
		}
		return os.WriteFile(output, skeleton, 0644)
	},
}

func parsePlatform(name string) (boot.Platform, error) {
	switch strings.ToLower(name) {
	case "x86":
		return boot.X86, nil
	case "ppc", "powerpc":
		return boot.PPC, nil
	case "mac", "macintosh":
		return boot.Mac, nil
	case "uefi", "efi":
		return boot.UEFI, nil
	}
	return 0, fmt.Errorf("unknown platform %q (want x86, ppc, mac or uefi)", name)
}

func parseMedia(name string) (boot.BootMedia, error) {
	switch strings.ToLower(name) {
	case "noemul", "none":
		return boot.NoEmulation, nil
	case "floppy1.2":
		return boot.Floppy1_2, nil
	case "floppy1.44":
		return boot.Floppy1_44, nil
	case "floppy2.88":
		return boot.Floppy2_88, nil
	case "harddisk", "hdd":
		return boot.HardDisk, nil
	}
	return 0, fmt.Errorf("unknown boot media %q (want noemul, floppy1.2, floppy1.44, floppy2.88 or harddisk)", name)
}

func init() {
	skelCmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	skelCmd.Flags().Uint32Var(&catalogSector, "catalog-sector", 18, "absolute sector of the boot catalog")
	skelCmd.Flags().Uint32Var(&imageSector, "image-sector", 19, "absolute sector of the boot image")
	skelCmd.Flags().Uint16Var(&imageSectors, "image-sectors", 4, "boot image length in 512-byte virtual-disk sectors")
	skelCmd.Flags().StringVar(&platform, "platform", "x86", "platform id (x86, ppc, mac, uefi)")
	skelCmd.Flags().StringVar(&media, "media", "floppy1.44", "boot media (noemul, floppy1.2, floppy1.44, floppy2.88, harddisk)")
	skelCmd.Flags().StringVar(&manufacturer, "manufacturer", "", "validation entry manufacturer id")

	rootCmd.AddCommand(skelCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
