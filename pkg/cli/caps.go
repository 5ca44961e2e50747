package cli

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/todo-e2e/pkg/capabilities"
)

var capsCommand = &cli.Command{
	Name:  "caps",
	Usage: "Print the session capabilities for the selected platform",
	Description: `Resolve the device and print the capabilities a test session would use.

Examples:
  todo-e2e caps
  todo-e2e --platform ios caps --format json
  todo-e2e --device any caps`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "format",
			Usage: "Output format (yaml, json)",
			Value: "yaml",
		},
	},
	Action: runCaps,
}

func runCaps(c *cli.Context) error {
	format := c.String("format")
	if format != "yaml" && format != "json" {
		return fmt.Errorf("unknown format %q (use yaml or json)", format)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	builder := capabilities.NewBuilder(cfg, nil)
	caps, err := builder.Build(c.Context, c.String("platform"), c.String("device"))
	if err != nil {
		return err
	}

	var data []byte
	if format == "json" {
		data, err = json.MarshalIndent(caps, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	} else {
		data, err = yaml.Marshal(caps)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.ErrWriter, "# remote: %s\n", builder.RemoteURL(caps.Platform()))
	_, err = c.App.Writer.Write(data)
	return err
}
