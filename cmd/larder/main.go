package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/perkola/larder/internal/config"
	"github.com/perkola/larder/internal/database"
	"github.com/perkola/larder/internal/logging"
	"github.com/perkola/larder/internal/model"
	"github.com/perkola/larder/internal/shopping"
	"github.com/perkola/larder/internal/store"
)

const usage = `Usage: larder [-db PATH] <command> [flags] [args]

Commands:
  add [-q N] NAME                     add an item (quantity defaults to 1)
  list                                list items, pending first, newest first
  get ID                              show one item
  update [-name S] [-q N] [-done|-undone] ID
                                      change fields of an item
  toggle ID                           flip an item between pending and completed
  delete ID                           remove an item
  clear                               remove every item
  clear-done                          remove completed items
  stats                               show total/completed/pending counts
  export                              write all items as JSON to stdout
  import                              read a JSON item array from stdin and add

Flags:
  -db PATH    SQLite database path (default: $LARDER_DB_PATH or larder.db)
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("larder", flag.ContinueOnError)
	dbPath := fs.String("db", cfg.DBPath, "")
	fs.Usage = func() { fmt.Fprint(os.Stdout, usage) }

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)

	db, err := database.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Debug("database ready", "path", *dbPath)

	svc := shopping.New(store.NewItemStore(db))

	cmd, args := fs.Arg(0), fs.Args()[1:]
	if err := run(svc, cmd, args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(svc *shopping.Service, cmd string, args []string) error {
	switch cmd {
	case "add":
		return runAdd(svc, args)
	case "list":
		return runList(svc)
	case "get":
		return runGet(svc, args)
	case "update":
		return runUpdate(svc, args)
	case "toggle":
		return runToggle(svc, args)
	case "delete":
		return runDelete(svc, args)
	case "clear":
		return svc.Clear()
	case "clear-done":
		return runClearDone(svc)
	case "stats":
		return runStats(svc)
	case "export":
		return runExport(svc)
	case "import":
		return runImport(svc)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runAdd(svc *shopping.Service, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	qty := fs.Int64("q", shopping.DefaultQuantity, "quantity")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: larder add [-q N] NAME")
	}

	var quantity *int64
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "q" {
			quantity = qty
		}
	})

	id, err := svc.Add(fs.Arg(0), quantity)
	if err != nil {
		return err
	}
	fmt.Printf("added item %d\n", id)
	return nil
}

func runList(svc *shopping.Service) error {
	items, err := svc.GetAll()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("no items")
		return nil
	}
	for _, item := range items {
		printItem(item)
	}
	return nil
}

func runGet(svc *shopping.Service, args []string) error {
	id, err := parseID(args, "get")
	if err != nil {
		return err
	}
	item, err := svc.Get(id)
	if err != nil {
		return err
	}
	if item == nil {
		fmt.Printf("item %d not found\n", id)
		return nil
	}
	printItem(*item)
	return nil
}

func runUpdate(svc *shopping.Service, args []string) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	name := fs.String("name", "", "new name")
	qty := fs.Int64("q", 0, "new quantity")
	done := fs.Bool("done", false, "mark completed")
	undone := fs.Bool("undone", false, "mark pending")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: larder update [-name S] [-q N] [-done|-undone] ID")
	}
	if *done && *undone {
		return errors.New("-done and -undone are mutually exclusive")
	}

	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", fs.Arg(0))
	}

	var params shopping.UpdateParams
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			params.Name = name
		case "q":
			params.Quantity = qty
		case "done":
			completed := true
			params.Completed = &completed
		case "undone":
			completed := false
			params.Completed = &completed
		}
	})
	if params.Name == nil && params.Quantity == nil && params.Completed == nil {
		return errors.New("nothing to update")
	}

	return svc.Update(id, params)
}

func runToggle(svc *shopping.Service, args []string) error {
	id, err := parseID(args, "toggle")
	if err != nil {
		return err
	}
	item, err := svc.Toggle(id)
	if err != nil {
		return err
	}
	if item != nil {
		printItem(*item)
	}
	return nil
}

func runDelete(svc *shopping.Service, args []string) error {
	id, err := parseID(args, "delete")
	if err != nil {
		return err
	}
	return svc.Delete(id)
}

func runClearDone(svc *shopping.Service) error {
	count, err := svc.ClearCompleted()
	if err != nil {
		return err
	}
	fmt.Printf("removed %d completed item(s)\n", count)
	return nil
}

func runStats(svc *shopping.Service) error {
	stats, err := svc.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("total %d, completed %d, pending %d\n", stats.Total, stats.Completed, stats.Pending)
	return nil
}

func runExport(svc *shopping.Service) error {
	items, err := svc.GetAll()
	if err != nil {
		return err
	}
	if items == nil {
		items = []model.Item{}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

// runImport re-adds items through the service so imported data goes through the
// same validation as typed input. Timestamps are reassigned on import.
func runImport(svc *shopping.Service) error {
	var items []model.Item
	if err := json.NewDecoder(os.Stdin).Decode(&items); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}

	for _, item := range items {
		qty := item.Quantity
		id, err := svc.Add(item.Name, &qty)
		if err != nil {
			return fmt.Errorf("import %q: %w", item.Name, err)
		}
		if item.Completed {
			if _, err := svc.Toggle(id); err != nil {
				return fmt.Errorf("import %q: %w", item.Name, err)
			}
		}
	}
	fmt.Printf("imported %d item(s)\n", len(items))
	return nil
}

func parseID(args []string, cmd string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: larder %s ID", cmd)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

func printItem(item model.Item) {
	mark := " "
	if item.Completed {
		mark = "x"
	}
	fmt.Printf("[%s] %4d  %s ×%d\n", mark, item.ID, item.Name, item.Quantity)
}
