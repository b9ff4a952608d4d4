package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"fitmrp-client/internal/cart"
	"fitmrp-client/internal/catalog"
	"fitmrp-client/internal/metrics"
	"fitmrp-client/internal/order"
)

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printCart(w io.Writer, c cart.Cart) {
	if c.Empty() {
		fmt.Fprintln(w, "Cart is empty.")
		return
	}

	tw := table(w)
	fmt.Fprintln(tw, "ID\tPRODUCT\tQTY\tUNIT\tAMOUNT")
	for _, l := range c.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", l.ProductID, l.Name, l.Quantity, l.UnitPrice.StringFixed(2), l.Amount().StringFixed(2))
	}
	tw.Flush()

	t := c.Totals
	fmt.Fprintf(w, "Subtotal: %s\n", t.SubtotalDisplay())
	if t.Discounted() {
		fmt.Fprintf(w, "Discount (%s%%): -%s\n", t.DiscountPercent(), t.DiscountDisplay())
	}
	fmt.Fprintf(w, "Total: %s\n", t.TotalDisplay())
}

func printOrders(w io.Writer, orders []order.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "No orders yet.")
		return
	}

	tw := table(w)
	fmt.Fprintln(tw, "ORDER\tDATE\tITEMS\tTOTAL")
	for _, o := range orders {
		date := "-"
		if !o.Date.IsZero() {
			date = o.Date.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", o.ID, date, len(o.Items), o.TotalDisplay())
	}
	tw.Flush()
}

func printProducts(w io.Writer, products []catalog.Product) {
	tw := table(w)
	fmt.Fprintln(tw, "ID\tPRODUCT\tCATEGORY\tPRICE")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.CategoryName, p.Price.StringFixed(2))
	}
	tw.Flush()
}

func printInventory(w io.Writer, items []catalog.InventoryItem) {
	tw := table(w)
	fmt.Fprintln(tw, "ID\tPRODUCT\tAVAILABLE")
	for _, i := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", i.ID, i.Name, i.Available)
	}
	tw.Flush()
}

func printMaterials(w io.Writer, materials []catalog.RawMaterial) {
	tw := table(w)
	fmt.Fprintln(tw, "ID\tMATERIAL")
	for _, m := range materials {
		fmt.Fprintf(tw, "%s\t%s\n", m.ID, m.Name)
	}
	tw.Flush()
}

func printMovements(w io.Writer, moves []catalog.Movement) {
	tw := table(w)
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tNOTES")
	for _, m := range moves {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.ID, m.Date.Local().Format("2006-01-02 15:04"), m.Type, m.Notes)
	}
	tw.Flush()
}

func printStats(w io.Writer, s metrics.Snapshot) {
	fmt.Fprintf(w, "api: %d requests, %d failed, last %s, avg %s\n",
		s.Requests, s.Failures, s.LastLatency, s.AverageLatency)
}
