// Command seed-db loads the menu catalog and, optionally, gzipped historical
// order exports into PostgreSQL. History files are CSV shards named
// orders-*.csv.gz and drinks-*.csv.gz; order ids seen in more than one shard
// are loaded once.
package main

import (
	"context"
	"encoding/binary"
	"encoding/csv"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/elliemck/boba-pos/internal/repository"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	copyBatchSize = 5_000
)

type menuItemJSON struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Photo       string          `json:"photo"`
	Description string          `json:"description"`
}

func main() {
	var (
		databaseURL string
		menuFile    string
		historyDir  string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&menuFile, "menu-file", "db/seed/menu.json", "path to menu JSON file")
	flag.StringVar(&historyDir, "history-dir", "", "directory with orders-*.csv.gz and drinks-*.csv.gz (optional)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, menuFile, historyDir); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, menuFile, historyDir string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "create pool")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedMenu(ctx, pool, menuFile); err != nil {
		return errors.Wrap(err, "seed menu")
	}

	if historyDir != "" {
		if err := loadHistory(ctx, pool, historyDir); err != nil {
			return errors.Wrap(err, "load history")
		}
	}
	return nil
}

const upsertMenuSQL = `INSERT INTO menu (item_name, item_price, category, photo, description)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (item_name, category) DO UPDATE
	SET item_price = EXCLUDED.item_price,
		photo = EXCLUDED.photo,
		description = EXCLUDED.description`

func seedMenu(ctx context.Context, pool *pgxpool.Pool, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}

	var items []menuItemJSON
	if err := json.Unmarshal(data, &items); err != nil {
		return errors.Wrap(err, "parse menu JSON")
	}

	for _, item := range items {
		_, err := pool.Exec(ctx, upsertMenuSQL,
			item.Name, item.Price, item.Category, item.Photo, item.Description)
		if err != nil {
			return errors.Wrapf(err, "upsert %q", item.Name)
		}
	}

	slog.Info("menu seeded", slog.Int("items", len(items)))
	return nil
}

// loadHistory bulk-loads historical exports. Shards are scanned concurrently
// to find order ids that repeat across files; the load itself runs per shard
// with COPY.
func loadHistory(ctx context.Context, pool *pgxpool.Pool, dir string) error {
	orderFiles, err := filepath.Glob(filepath.Join(dir, "orders-*.csv.gz"))
	if err != nil {
		return errors.Wrap(err, "glob order shards")
	}
	drinkFiles, err := filepath.Glob(filepath.Join(dir, "drinks-*.csv.gz"))
	if err != nil {
		return errors.Wrap(err, "glob drink shards")
	}
	if len(orderFiles) == 0 {
		return errors.Errorf("no orders-*.csv.gz in %s", dir)
	}

	dups, err := findDuplicateOrderIDs(ctx, orderFiles)
	if err != nil {
		return errors.Wrap(err, "scan for duplicate order ids")
	}
	slog.Info("duplicate scan done",
		slog.Int("shards", len(orderFiles)),
		slog.Int("candidates", len(dups)))

	loaded := make(map[int64]struct{})
	var total int64
	for _, file := range orderFiles {
		n, err := loadOrderShard(ctx, pool, file, dups, loaded)
		if err != nil {
			return errors.Wrapf(err, "load %s", file)
		}
		total += n
	}
	slog.Info("orders loaded", slog.Int64("rows", total))

	// Keep the sequence ahead of imported ids so live checkouts never collide.
	_, err = pool.Exec(ctx,
		`SELECT setval(pg_get_serial_sequence('orders', 'order_id'),
			GREATEST((SELECT COALESCE(MAX(order_id), 1) FROM orders), 1))`)
	if err != nil {
		return errors.Wrap(err, "advance order sequence")
	}

	menuIDs, err := menuIDsByName(ctx, pool)
	if err != nil {
		return errors.Wrap(err, "load menu ids")
	}

	total = 0
	for _, file := range drinkFiles {
		n, err := loadDrinkShard(ctx, pool, file, loaded, menuIDs)
		if err != nil {
			return errors.Wrapf(err, "load %s", file)
		}
		total += n
	}
	slog.Info("drinks loaded", slog.Int64("rows", total))
	return nil
}

// findDuplicateOrderIDs scans every shard concurrently and returns candidate
// duplicate ids: every id the bloom filter has possibly seen before. The set
// holds the true duplicates plus a small false-positive tail; the loader
// resolves candidates exactly, so a false positive costs a lookup, not a row.
func findDuplicateOrderIDs(ctx context.Context, files []string) (map[int64]struct{}, error) {
	var (
		mu     sync.Mutex
		filter = bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		dups   = make(map[int64]struct{})
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, file := range files {
		g.Go(func() error {
			return scanShard(ctx, file, func(record []string) error {
				id, err := strconv.ParseInt(record[0], 10, 64)
				if err != nil {
					return errors.Wrapf(err, "bad order id %q", record[0])
				}
				var key [8]byte
				binary.BigEndian.PutUint64(key[:], uint64(id))

				mu.Lock()
				if filter.TestOrAdd(key[:]) {
					dups[id] = struct{}{}
				}
				mu.Unlock()
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dups, nil
}

// scanShard streams one gzipped CSV shard, skipping the header row.
func scanShard(ctx context.Context, path string, fn func(record []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "gzip %s", path)
	}
	defer gz.Close()

	reader := csv.NewReader(gz)
	header := true
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "read %s", path)
		}
		if header {
			header = false
			continue
		}
		if err := fn(record); err != nil {
			return err
		}
	}
}

// Order shard columns:
// order_id,subtotal,sales_tax,tips,order_price,payment_method,order_date,order_time
func loadOrderShard(ctx context.Context, pool *pgxpool.Pool, path string, dups, loaded map[int64]struct{}) (int64, error) {
	var (
		rows  [][]any
		total int64
	)
	flush := func() error {
		if len(rows) == 0 {
			return nil
		}
		n, err := pool.CopyFrom(ctx,
			pgx.Identifier{"orders"},
			[]string{"order_id", "subtotal", "sales_tax", "tips", "order_price", "payment_method", "order_date", "order_time"},
			pgx.CopyFromRows(rows),
		)
		total += n
		rows = rows[:0]
		return err
	}

	err := scanShard(ctx, path, func(record []string) error {
		if len(record) != 8 {
			return errors.Errorf("want 8 columns, got %d", len(record))
		}
		id, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return errors.Wrapf(err, "bad order id %q", record[0])
		}
		if _, dup := dups[id]; dup {
			if _, done := loaded[id]; done {
				return nil
			}
		}
		loaded[id] = struct{}{}

		money := make([]decimal.Decimal, 4)
		for i, col := range record[1:5] {
			money[i], err = decimal.NewFromString(col)
			if err != nil {
				return errors.Wrapf(err, "bad amount %q in order %d", col, id)
			}
		}

		rows = append(rows, []any{
			id, money[0], money[1], money[2], money[3],
			record[5], record[6], record[7],
		})
		if len(rows) >= copyBatchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return total, err
	}
	return total, flush()
}

// Drink shard columns:
// order_id,item_name,cup_size,sugar_level,ice_amount,drink_price
func loadDrinkShard(ctx context.Context, pool *pgxpool.Pool, path string, loaded map[int64]struct{}, menuIDs map[string]int64) (int64, error) {
	var (
		rows  [][]any
		total int64
	)
	flush := func() error {
		if len(rows) == 0 {
			return nil
		}
		n, err := pool.CopyFrom(ctx,
			pgx.Identifier{"drinks"},
			[]string{"order_id", "item_id", "item_name", "cup_size", "sugar_level", "ice_amount", "drink_price"},
			pgx.CopyFromRows(rows),
		)
		total += n
		rows = rows[:0]
		return err
	}

	err := scanShard(ctx, path, func(record []string) error {
		if len(record) != 6 {
			return errors.Errorf("want 6 columns, got %d", len(record))
		}
		id, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return errors.Wrapf(err, "bad order id %q", record[0])
		}
		// Drinks for orders that never loaded (orphaned export rows) are
		// dropped rather than failing the FK.
		if _, ok := loaded[id]; !ok {
			return nil
		}

		price, err := decimal.NewFromString(record[5])
		if err != nil {
			return errors.Wrapf(err, "bad price %q in order %d", record[5], id)
		}

		rows = append(rows, []any{
			id,
			menuRef(menuIDs, "Drink", record[1]),
			record[1],
			menuRef(menuIDs, "Modifier-Size", record[2]),
			menuRef(menuIDs, "Modifier-Sugar", record[3]),
			menuRef(menuIDs, "Modifier-Ice", record[4]),
			price,
		})
		if len(rows) >= copyBatchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return total, err
	}
	return total, flush()
}

func menuIDsByName(ctx context.Context, pool *pgxpool.Pool) (map[string]int64, error) {
	rows, err := pool.Query(ctx, `SELECT menu_id, category, item_name FROM menu`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]int64)
	for rows.Next() {
		var (
			id             int64
			category, name string
		)
		if err := rows.Scan(&id, &category, &name); err != nil {
			return nil, err
		}
		ids[category+"/"+strings.ToLower(name)] = id
	}
	return ids, rows.Err()
}

func menuRef(menuIDs map[string]int64, category, name string) *int64 {
	if name == "" {
		return nil
	}
	if id, ok := menuIDs[category+"/"+strings.ToLower(name)]; ok {
		return &id
	}
	return nil
}
