package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/HeatherCyber/BlitzBuy/internal/model"
	"github.com/HeatherCyber/BlitzBuy/internal/sale"
)

// goodsCmd prints flash-sale goods without entering the interactive UI.
var goodsCmd = &cobra.Command{
	Use:   "goods [id]",
	Short: "List flash-sale goods, or show one by id",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGoods,
}

func runGoods(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	ctx := context.Background()

	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid goods id %q", args[0])
		}
		goods, err := client.GetGoods(ctx, id)
		if err != nil {
			return err
		}
		printGoodsDetail(cmd, goods)
		return nil
	}

	list, err := client.ListGoods(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tSALE\tSTOCK\tPHASE")
	for _, g := range list {
		phase, remain := sale.Evaluate(now, g.StartTime, g.EndTime)
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%.2f\t%d\t%s\n",
			g.ID, g.Name, g.Price, g.FlashSalePrice, g.FlashSaleStock,
			phaseCell(phase, remain))
	}
	return w.Flush()
}

func printGoodsDetail(cmd *cobra.Command, g model.Goods) {
	phase, remain := sale.Evaluate(time.Now(), g.StartTime, g.EndTime)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (#%d)\n", g.Name, g.ID)
	if g.Description != "" {
		fmt.Fprintln(out, g.Description)
	}
	fmt.Fprintf(out, "Price:      %.2f (list %.2f)\n", g.FlashSalePrice, g.Price)
	fmt.Fprintf(out, "Stock:      %d\n", g.FlashSaleStock)
	fmt.Fprintf(out, "Window:     %s .. %s\n",
		g.StartTime.Local().Format(time.DateTime), g.EndTime.Local().Format(time.DateTime))
	fmt.Fprintf(out, "Phase:      %s\n", phaseCell(phase, remain))
}

// phaseCell renders the phase column, with the countdown attached while
// the sale has not started.
func phaseCell(phase sale.Phase, remain int64) string {
	if phase == sale.PhaseNotStarted {
		return fmt.Sprintf("%s (%s)", phase, sale.FormatRemaining(remain))
	}
	return phase.String()
}
