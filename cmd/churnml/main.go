// Command churnml trains, evaluates, applies and serves customer churn models.
//
// Usage:
//
//	churnml train --data customers.csv [--target Churn] [--out models/model.json]
//	churnml eval --data holdout.csv --model models/model.json [--plot roc.png]
//	churnml predict --data new.csv --model models/model.json [--out predictions.csv] [--proba]
//	churnml serve [--addr :8000] [--model models/model.json]
package main

import (
	"os"

	"github.com/pterm/pterm"
	"k8s.io/klog/v2"
)

func main() {
	defer klog.Flush()
	if err := newRootCmd().Execute(); err != nil {
		pterm.Error.Println(err)
		klog.Flush()
		os.Exit(1)
	}
}
