package cmd

import (
	"fmt"
	"os"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/ggwave-go/ggwave/codec"
)

// protocolsCmd represents the protocols command
var protocolsCmd = &cobra.Command{
	Use:   "protocols",
	Short: "List all available transmission protocols",
	Long:  `List all available transmission protocols`,
	Run: func(cmd *cobra.Command, args []string) {
		listProtocols()
	},
}

func init() {
	RootCmd.AddCommand(protocolsCmd)
}

var tmpl = template.Must(template.New("").Parse(
	`
Available transmission protocols:

	Detected {{. | len}} protocol(s): {{range .}}

	Name:   {{.Name}}
	ID:     {{.ID}}
	Band:   {{.Band}}
	Speed:  {{.Speed}}
{{end}}`,
))

type protocolInfo struct {
	Name  string
	ID    int32
	Band  string
	Speed string
}

// listProtocols prints the built-in transmission protocol catalog
func listProtocols() {
	infos := []protocolInfo{}
	for _, p := range codec.Protocols() {
		infos = append(infos, protocolInfo{
			Name:  p.String(),
			ID:    int32(p),
			Band:  protocolBand(p),
			Speed: protocolSpeed(p),
		})
	}
	if err := tmpl.Execute(os.Stdout, infos); err != nil {
		fmt.Println(err)
	}
}

func protocolBand(p codec.ProtocolID) string {
	switch {
	case p <= codec.ProtocolAudibleFastest:
		return "audible"
	case p <= codec.ProtocolUltrasoundFastest:
		return "ultrasound"
	case p <= codec.ProtocolDTFastest:
		return "dual-tone"
	default:
		return "mono-tone"
	}
}

func protocolSpeed(p codec.ProtocolID) string {
	switch p % 3 {
	case 0:
		return "normal"
	case 1:
		return "fast"
	default:
		return "fastest"
	}
}
