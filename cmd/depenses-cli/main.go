// Command depenses-cli is a terminal view over the expense API. It follows a
// fetch-after-write policy: every successful mutation re-fetches both the
// list and the monthly estimate from the server, so the displayed estimate
// never drifts from server state.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"depenses/internal/client"
	"depenses/internal/config"
	"depenses/internal/core"
)

type view struct {
	api    *client.Client
	sorter *core.Sorter
	in     *bufio.Scanner

	expenses []core.Expense
	listErr  string

	estimate    core.MonthlyEstimate
	hasEstimate bool
	estimateErr string
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "configuration invalide:", err)
		os.Exit(1)
	}

	v := &view{
		api:    client.New(cfg.APIBaseURL, cfg.RequestTimeout),
		sorter: core.NewSorter(),
		in:     bufio.NewScanner(os.Stdin),
	}

	fmt.Println("depenses - tapez 'aide' pour la liste des commandes")
	v.refreshAll()
	v.render()

	for {
		fmt.Print("> ")
		if !v.in.Scan() {
			return
		}
		line := strings.TrimSpace(v.in.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "quitter", "q":
			return
		case "aide", "h":
			printHelp()
		case "liste", "l":
			v.refreshAll()
			v.render()
		case "tri":
			v.toggleSort(args)
		case "ajouter", "a":
			v.addExpense()
		case "modifier", "m":
			v.editExpense(args)
		case "supprimer", "rm":
			v.deleteExpense(args)
		case "estimation", "e":
			v.loadEstimate()
			v.renderEstimate()
		default:
			fmt.Printf("commande inconnue %q - tapez 'aide'\n", cmd)
		}
	}
}

func printHelp() {
	fmt.Println(`commandes:
  liste                recharge et affiche les depenses et l'estimation
  tri date|lieu|categorie
                       trie la liste (repeter pour inverser l'ordre)
  ajouter              ajoute une depense (champs demandes un par un)
  modifier <id>        modifie une depense
  supprimer <id>       supprime une depense (confirmation demandee)
  estimation           recharge l'estimation mensuelle
  quitter`)
}

// refreshAll loads the list and the estimate independently: a failure on one
// panel never blocks or clears the other.
func (v *view) refreshAll() {
	v.loadExpenses()
	v.loadEstimate()
}

func (v *view) loadExpenses() {
	v.listErr = ""
	expenses, err := v.api.GetExpenses(context.Background())
	if err != nil {
		v.listErr = "Impossible de charger les depenses."
		return
	}
	v.expenses = expenses
}

func (v *view) loadEstimate() {
	v.estimateErr = ""
	est, err := v.api.GetMonthlyEstimate(context.Background())
	if err != nil {
		v.estimateErr = "Impossible de charger l'estimation."
		return
	}
	v.estimate = est
	v.hasEstimate = true
}

func (v *view) render() {
	if v.listErr != "" {
		fmt.Println(v.listErr)
	} else {
		v.renderList()
	}
	v.renderEstimate()
}

func (v *view) renderList() {
	if len(v.expenses) == 0 {
		fmt.Println("aucune depense")
		return
	}
	sorted := v.sorter.Sort(v.expenses)

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tLIEU\tCATEGORIE\tMONTANT")
	for _, e := range sorted {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f €\n", e.ID, e.ExpenseDate, e.Place, e.Category, e.Amount)
	}
	w.Flush()
}

func (v *view) renderEstimate() {
	if v.estimateErr != "" {
		fmt.Println(v.estimateErr)
		return
	}
	if !v.hasEstimate {
		return
	}
	fmt.Printf("mois en cours: %.2f € en %d jours - estimation fin de mois (%d jours): %.2f €\n",
		v.estimate.TotalSoFar, v.estimate.DaysElapsed, v.estimate.DaysInMonth, v.estimate.EstimatedTotal)
}

func (v *view) toggleSort(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: tri date|lieu|categorie")
		return
	}
	var key core.SortKey
	switch args[0] {
	case "date":
		key = core.SortByDate
	case "lieu":
		key = core.SortByPlace
	case "categorie":
		key = core.SortByCategory
	default:
		fmt.Println("usage: tri date|lieu|categorie")
		return
	}
	v.sorter.Toggle(key)
	v.renderList()
}

// prompt reads one line of input after printing a label.
func (v *view) prompt(label string) string {
	fmt.Print(label)
	if !v.in.Scan() {
		return ""
	}
	return strings.TrimSpace(v.in.Text())
}

func (v *view) promptInput() (core.ExpenseInput, bool) {
	var in core.ExpenseInput

	amount, err := strconv.ParseFloat(strings.ReplaceAll(v.prompt("montant: "), ",", "."), 64)
	if err != nil {
		fmt.Println("montant invalide")
		return in, false
	}
	in.Amount = amount
	in.Place = v.prompt("lieu: ")
	in.ExpenseDate = v.prompt("date (AAAA-MM-JJ): ")
	in.Category = core.Category(v.prompt("categorie (sorties, courses, essences, achats exceptionnels): "))

	if err := in.Validate(); err != nil {
		fmt.Println("saisie invalide:", err)
		return in, false
	}
	return in, true
}

func (v *view) addExpense() {
	in, ok := v.promptInput()
	if !ok {
		return
	}

	created, err := v.api.CreateExpense(context.Background(), in)
	if err != nil {
		fmt.Println("Erreur lors de la creation de la depense.")
		return
	}
	fmt.Printf("depense #%d enregistree\n", created.ID)

	v.refreshAll()
	v.render()
}

func (v *view) editExpense(args []string) {
	id, ok := parseID(args)
	if !ok {
		fmt.Println("usage: modifier <id>")
		return
	}

	in, ok := v.promptInput()
	if !ok {
		return
	}

	updated, err := v.api.UpdateExpense(context.Background(), core.ExpenseUpdate{ID: id, ExpenseInput: in})
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.IsNotFound() {
			fmt.Println("depense introuvable")
		} else {
			fmt.Println("Erreur lors de la modification de la depense.")
		}
		return
	}
	fmt.Printf("depense #%d modifiee\n", updated.ID)

	v.refreshAll()
	v.render()
}

func (v *view) deleteExpense(args []string) {
	id, ok := parseID(args)
	if !ok {
		fmt.Println("usage: supprimer <id>")
		return
	}

	// Destructive action: explicit confirmation before the request leaves.
	answer := v.prompt(fmt.Sprintf("supprimer la depense #%d ? (o/N) ", id))
	if answer != "o" && answer != "O" && answer != "oui" {
		fmt.Println("annule")
		return
	}

	deleted, err := v.api.DeleteExpense(context.Background(), id)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.IsNotFound() {
			fmt.Println("depense introuvable")
		} else {
			fmt.Println("Erreur lors de la suppression de la depense.")
		}
		return
	}
	fmt.Printf("depense #%d (%s) supprimee\n", deleted.ID, deleted.Place)

	v.refreshAll()
	v.render()
}

func parseID(args []string) (int64, bool) {
	if len(args) != 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	return id, err == nil && id > 0
}
