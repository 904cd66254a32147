// Command bench measures the interval coders against gzip on every file of a directory.
package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"flag"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/fumin/interval"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	flagConfig = flag.String("c", `{
		"Dir": "testdata",
		"Variants": ["range", "arithmetic", "gzip"],
		"Iterations": 3,
		"Workers": 4
		}`, "configuration")
)

type Config struct {
	Dir        string
	Variants   []string
	Iterations int
	Workers    int
}

// A coder is one compressor under measurement.
type coder struct {
	name       string
	compress   func(w io.Writer, name string) error
	decompress func(w io.Writer, r io.Reader) error
}

func intervalCoder(v interval.Variant) coder {
	return coder{
		name: v.String(),
		compress: func(w io.Writer, name string) error {
			return interval.Compress(w, name, v)
		},
		decompress: interval.Decompress,
	}
}

var gzipCoder = coder{
	name: "gzip",
	compress: func(w io.Writer, name string) error {
		f, err := os.Open(name)
		if err != nil {
			return errors.Wrap(err, "")
		}
		defer f.Close()
		zw := gzip.NewWriter(w)
		if _, err := io.Copy(zw, f); err != nil {
			return errors.Wrap(err, "")
		}
		if err := zw.Close(); err != nil {
			return errors.Wrap(err, "")
		}
		return nil
	},
	decompress: func(w io.Writer, r io.Reader) error {
		zr, err := gzip.NewReader(r)
		if err != nil {
			return errors.Wrap(err, "")
		}
		defer zr.Close()
		if _, err := io.Copy(w, zr); err != nil {
			return errors.Wrap(err, "")
		}
		return nil
	},
}

func parseCoder(name string) (coder, error) {
	if name == gzipCoder.name {
		return gzipCoder, nil
	}
	v, err := interval.ParseVariant(name)
	if err != nil {
		return coder{}, errors.Wrap(err, "")
	}
	return intervalCoder(v), nil
}

// A Result holds the measurements of one coder on one file.
type Result struct {
	Path       string
	Coder      string
	Original   int64
	Compressed int64
	Encode     time.Duration // per iteration
	Decode     time.Duration // per iteration
}

func (r Result) ratio() float64 {
	if r.Original == 0 {
		return 0
	}
	return float64(r.Compressed) / float64(r.Original)
}

func throughput(n int64, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / (1 << 20) / d.Seconds()
}

func measure(ctx context.Context, c coder, fpath string, iterations int) (Result, error) {
	original, err := ioutil.ReadFile(fpath)
	if err != nil {
		return Result{}, errors.Wrap(err, "")
	}
	res := Result{Path: fpath, Coder: c.name, Original: int64(len(original))}

	var compressed bytes.Buffer
	start := time.Now()
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		compressed.Reset()
		if err := c.compress(&compressed, fpath); err != nil {
			return Result{}, errors.Wrap(err, c.name)
		}
	}
	res.Encode = time.Since(start) / time.Duration(iterations)
	res.Compressed = int64(compressed.Len())

	var decompressed bytes.Buffer
	start = time.Now()
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		decompressed.Reset()
		if err := c.decompress(&decompressed, bytes.NewReader(compressed.Bytes())); err != nil {
			return Result{}, errors.Wrap(err, c.name)
		}
	}
	res.Decode = time.Since(start) / time.Duration(iterations)

	if !bytes.Equal(original, decompressed.Bytes()) {
		return Result{}, errors.Errorf("%s: %s does not round trip", c.name, fpath)
	}
	return res, nil
}

// measureAll runs every coder on every file, config.Workers at a time.
// Each run owns its coder state, so runs are independent of each other.
func measureAll(config Config, data []string, coders []coder) ([]Result, error) {
	results := make([]Result, len(data)*len(coders))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(config.Workers)
	for i, fpath := range data {
		for j, c := range coders {
			idx, fpath, c := i*len(coders)+j, fpath, c
			g.Go(func() error {
				res, err := measure(ctx, c, fpath, config.Iterations)
				if err != nil {
					return errors.Wrap(err, "")
				}
				results[idx] = res
				log.Printf("%s %s: %d -> %d", c.name, fpath, res.Original, res.Compressed)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return results, nil
}

func display(w io.Writer, results []Result) error {
	p := message.NewPrinter(language.English) // For commas between thousands
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	p.Fprintf(tw, "file\tcoder\toriginal\tcompressed\tratio\tencode MiB/s\tdecode MiB/s\t\n")
	for _, r := range results {
		p.Fprintf(tw, "%s\t%s\t%d\t%d\t%.4f\t%.2f\t%.2f\t\n",
			filepath.Base(r.Path), r.Coder, r.Original, r.Compressed, r.ratio(),
			throughput(r.Original, r.Encode), throughput(r.Original, r.Decode))
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func listFiles(dir string) ([]string, error) {
	files, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	data := make([]string, 0, len(files))
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		fpath := filepath.Join(dir, f.Name())
		data = append(data, fpath)
	}
	return data, nil
}

func run(config Config) error {
	data, err := listFiles(config.Dir)
	if err != nil {
		return errors.Wrap(err, "")
	}
	coders := make([]coder, 0, len(config.Variants))
	for _, name := range config.Variants {
		c, err := parseCoder(name)
		if err != nil {
			return errors.Wrap(err, "")
		}
		coders = append(coders, c)
	}

	results, err := measureAll(config, data, coders)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if err := display(os.Stdout, results); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func parseConfig() (Config, error) {
	config := Config{}
	if err := json.Unmarshal([]byte(*flagConfig), &config); err != nil {
		return Config{}, errors.Wrap(err, "")
	}
	if config.Iterations < 1 {
		config.Iterations = 1
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	configB, err := json.Marshal(config)
	if err != nil {
		return Config{}, errors.Wrap(err, "")
	}
	log.Printf("config: %s", configB)
	return config, nil
}

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)

	config, err := parseConfig()
	if err != nil {
		log.Fatalf("%+v", err)
	}
	if err := run(config); err != nil {
		log.Fatalf("%+v", err)
	}
}
