package cmd

import (
	"github.com/Carlosagamez2021/AI-Indexing/internal/tui"
)

func runTUI() error {
	ag, st, err := newAgent()
	if err != nil {
		return err
	}
	defer st.Close()

	return tui.Run(ag)
}
