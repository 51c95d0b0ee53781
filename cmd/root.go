package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jsphweid/xmlabc/constants"
)

var rootCmd = &cobra.Command{
	Use:     "xmlabc",
	Short:   "MusicXML to ABC",
	Long:    `Translates MusicXML documents (.xml, .mxl) into ABC notation.`,
	Version: constants.Version,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
