package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/srg/blimp/internal/peripheral"
	"github.com/srg/blimp/pkg/config"
	"gopkg.in/yaml.v3"
)

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Print the GATT profile served by the peripheral",
	Long: `Print the advertised name, service and characteristic exposed by
"blimp serve" with the current configuration, so a central can be configured
without a scan.`,
	Example: `  blimp profile
  blimp profile --format json
  blimp profile --config blimp.yaml --format yaml`,
	RunE: runProfile,
}

var profileFormat string

func init() {
	profileCmd.Flags().StringVarP(&profileFormat, "format", "f", "text", "Output format (text, yaml, json)")
}

// gattProfile is the serialisable view of the exposed GATT profile
type gattProfile struct {
	DeviceName   string      `yaml:"device_name" json:"device_name"`
	NotifyPeriod string      `yaml:"notify_period" json:"notify_period"`
	Service      serviceInfo `yaml:"service" json:"service"`
}

type serviceInfo struct {
	UUID            string     `yaml:"uuid" json:"uuid"`
	Characteristics []charInfo `yaml:"characteristics" json:"characteristics"`
}

type charInfo struct {
	UUID       string   `yaml:"uuid" json:"uuid"`
	Properties []string `yaml:"properties" json:"properties"`
	Format     string   `yaml:"format" json:"format"`
	Size       int      `yaml:"size" json:"size"`
	Range      string   `yaml:"range" json:"range"`
}

func newGATTProfile(cfg *config.Config) gattProfile {
	return gattProfile{
		DeviceName:   cfg.DeviceName,
		NotifyPeriod: cfg.NotifyPeriod.String(),
		Service: serviceInfo{
			UUID: canonicalUUID(cfg.ServiceUUID),
			Characteristics: []charInfo{{
				UUID:       canonicalUUID(cfg.CharacteristicUUID),
				Properties: []string{"read", "notify"},
				Format:     "int32le",
				Size:       peripheral.PayloadSize,
				Range:      fmt.Sprintf("[0, %d)", peripheral.MaxValue),
			}},
		},
	}
}

// canonicalUUID renders a validated UUID in upper-case 8-4-4-4-12 form
func canonicalUUID(s string) string {
	u, err := uuid.Parse(s)
	if err != nil {
		return s
	}
	return strings.ToUpper(u.String())
}

func runProfile(cmd *cobra.Command, args []string) error {
	validFormats := []string{"text", "yaml", "json"}
	isValidFormat := false
	for _, format := range validFormats {
		if profileFormat == format {
			isValidFormat = true
			break
		}
	}
	if !isValidFormat {
		return fmt.Errorf("invalid format '%s': must be one of %v", profileFormat, validFormats)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cmd.SilenceUsage = true

	return writeProfile(cmd.OutOrStdout(), newGATTProfile(cfg), profileFormat)
}

func writeProfile(out io.Writer, p gattProfile, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return err
		}
		return enc.Close()
	default:
		fmt.Fprintf(out, "Device:  %s\n", p.DeviceName)
		fmt.Fprintf(out, "Period:  %s\n", p.NotifyPeriod)
		fmt.Fprintf(out, "Service: %s\n", p.Service.UUID)
		for _, c := range p.Service.Characteristics {
			fmt.Fprintf(out, "  Characteristic: %s\n", c.UUID)
			fmt.Fprintf(out, "    Properties: %s\n", strings.Join(c.Properties, ", "))
			fmt.Fprintf(out, "    Value:      %s, %d bytes, %s\n", c.Format, c.Size, c.Range)
		}
		return nil
	}
}
