package cmd

import (
	"os"

	"github.com/jack-barr3tt/pex-formatter/src/common/config"
	"github.com/jack-barr3tt/pex-formatter/src/common/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	cfgFile  string
	logLevel string

	cfg    *config.Config
	logger *zap.SugaredLogger
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "pexcli",
		Short: "Format PEX timetable exports into event tables",
		Long: `pexcli parses PEX timetable exports and writes one row per origin, dwell,
movement and destination of every train run.

Example Usage:
  pexcli format WTT.pex                          # writes WTT.csv next to the input
  pexcli format WTT.pex --format xlsx -o out.xlsx
  pexcli format WTT.pex -o - | head              # stream CSV to stdout`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.cfgFile)
			if err != nil {
				return err
			}
			if a.logLevel != "" {
				cfg.LogLevel = a.logLevel
			}
			a.cfg = cfg

			utils.InitLogger(cfg.LogLevel)
			a.logger = utils.GetLogger()
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", os.Getenv("PEX_CONFIG"), "path to a YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(newFormatCmd(a), newVersionCmd())
	return root
}
