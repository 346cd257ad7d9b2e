package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/HeatherCyber/BlitzBuy/internal/model"
)

// orderCmd prints your flash-sale orders.
var orderCmd = &cobra.Command{
	Use:   "order [id]",
	Short: "List your orders, or show one by id",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runOrder,
}

func runOrder(cmd *cobra.Command, args []string) error {
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
			return fmt.Errorf("invalid order id %q", args[0])
		}
		order, err := client.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		printOrderDetail(cmd, order)
		return nil
	}

	orders, err := client.ListOrders(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tGOODS\tQTY\tPRICE\tSTATUS\tCREATED")
	for _, o := range orders {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.2f\t%s\t%s\n",
			o.ID, o.GoodsName, o.GoodsCount, o.GoodsPrice, o.OrderStatus,
			orderTime(o.CreateTime))
	}
	return w.Flush()
}

func printOrderDetail(cmd *cobra.Command, o model.Order) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Order #%d\n", o.ID)
	fmt.Fprintf(out, "Item:       %s x%d\n", o.GoodsName, o.GoodsCount)
	fmt.Fprintf(out, "Price:      %.2f\n", o.GoodsPrice)
	fmt.Fprintf(out, "Status:     %s\n", o.OrderStatus)
	if o.DeliveryAddress != "" {
		fmt.Fprintf(out, "Address:    %s\n", o.DeliveryAddress)
	}
	fmt.Fprintf(out, "Created:    %s\n", orderTime(o.CreateTime))
	if o.PayTime != nil {
		fmt.Fprintf(out, "Paid:       %s\n", orderTime(o.PayTime))
	}
}

func orderTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}

// payCmd settles a pending order.
var payCmd = &cobra.Command{
	Use:   "pay <order-id>",
	Short: "Pay a pending order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid order id %q", args[0])
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := newClient(cfg, logger)
		if err != nil {
			return err
		}
		ctx := context.Background()

		order, err := client.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		if !order.OrderStatus.Payable() {
			return fmt.Errorf("order #%d is %s and cannot be paid", id, order.OrderStatus)
		}
		if err := client.PayOrder(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Order #%d paid.\n", id)
		return nil
	},
}
