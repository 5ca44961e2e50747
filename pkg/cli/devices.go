package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/todo-e2e/pkg/device"
)

var devicesCommand = &cli.Command{
	Name:  "devices",
	Usage: "List connected Android devices",
	Description: `List devices reported by adb with their state. Only devices in the
"device" state are eligible for auto-selection.

Examples:
  todo-e2e devices`,
	Action: runDevices,
}

func runDevices(c *cli.Context) error {
	devices, err := device.ListDevices(c.Context)
	if err != nil {
		return err
	}

	w := c.App.Writer
	if len(devices) == 0 {
		fmt.Fprintf(w, "No devices attached (fallback %s)\n", device.FallbackDeviceID)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SERIAL\tSTATE\tREADY")
	for _, d := range devices {
		ready := ""
		if d.Ready() {
			ready = color(colorGreen) + "yes" + color(colorReset)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Serial, d.State, ready)
	}
	return tw.Flush()
}
