// Copyright 2017, Kerby Shedden and the Phenogene contributors.

package correlate

import (
	"github.com/kshedden/phenogene/utils"
)

type pointBiserialRow struct {
	Gene     string      `csv:"gene"`
	R        utils.Float `csv:"point_biserial_Corr."`
	P        utils.Float `csv:"p"`
	Q        utils.Float `csv:"q"`
	FisherP  utils.Float `csv:"fisher_p"`
	NPresent int         `csv:"n_present"`
	N        int         `csv:"n"`
}

type pearsonRow struct {
	Gene     string      `csv:"gene"`
	R        utils.Float `csv:"pearson_Corr."`
	P        utils.Float `csv:"p"`
	Q        utils.Float `csv:"q"`
	FisherP  utils.Float `csv:"fisher_p"`
	NPresent int         `csv:"n_present"`
	N        int         `csv:"n"`
}

// Write writes the results as a tab-delimited table.  The name of the
// correlation column reflects the method used.
func (rpt *Report) Write(name string) error {

	if rpt.Method == PointBiserial {
		rows := make([]*pointBiserialRow, len(rpt.Results))
		for i, r := range rpt.Results {
			rows[i] = &pointBiserialRow{r.Gene, utils.Float(r.R), utils.Float(r.P),
				utils.Float(r.Q), utils.Float(r.FisherP), r.NPresent, r.N}
		}
		return utils.WriteTSV(name, rows)
	}

	rows := make([]*pearsonRow, len(rpt.Results))
	for i, r := range rpt.Results {
		rows[i] = &pearsonRow{r.Gene, utils.Float(r.R), utils.Float(r.P),
			utils.Float(r.Q), utils.Float(r.FisherP), r.NPresent, r.N}
	}
	return utils.WriteTSV(name, rows)
}
