package main

import (
	"context"
	"fmt"
	"github.com/saylorsolutions/eventnode/cli"
	"github.com/saylorsolutions/eventnode/dispatch"
	"github.com/saylorsolutions/eventnode/node"
	"github.com/saylorsolutions/eventnode/syncx"
	flag "github.com/spf13/pflag"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"log/slog"
	"slices"
	"sync"
	"time"
)

type demo struct {
	log      *slog.Logger
	provider *sdkmetric.MeterProvider
}

func (d *demo) newNode(name string) *node.Node {
	opts := []node.Option{node.WithName(name), node.WithLogger(d.log)}
	if d.provider != nil {
		opts = append(opts, node.WithMeter(d.provider.Meter("nodedemo")))
	}
	return node.New(opts...)
}

func commands(d *demo, printer *cli.Printer) *cli.CommandSet {
	set := cli.NewCommandSet("nodedemo", printer).
		About("Runs small scenarios against event nodes and prints what happened.")

	var atomic atomicOpts
	cmd := set.AddCommand("atomic", "Serializes operations per key with an atomic queue", "a")
	cmd.Flags().IntVar(&atomic.tasks, "tasks", 6, "Number of operations to submit")
	cmd.Flags().IntVar(&atomic.keys, "keys", 2, "Number of keys to spread operations across")
	cmd.Flags().DurationVar(&atomic.delay, "delay", 20*time.Millisecond, "How long each operation runs")
	cmd.Does(func(ctx context.Context, _ *flag.FlagSet, out *cli.Printer) error {
		return d.atomic(ctx, atomic, out)
	})

	var debounce debounceOpts
	cmd = set.AddCommand("debounce", "Debounces a burst of events", "d")
	cmd.Flags().StringVar(&debounce.mode, "mode", string(node.DefaultDebounce.Mode), "Debounce mode, first or last")
	cmd.Flags().DurationVar(&debounce.timeout, "timeout", node.DefaultDebounce.Timeout, "Debounce window")
	cmd.Flags().IntVar(&debounce.events, "events", 5, "Number of events in the burst")
	cmd.Flags().DurationVar(&debounce.interval, "interval", 30*time.Millisecond, "Time between events")
	cmd.Does(func(ctx context.Context, _ *flag.FlagSet, out *cli.Printer) error {
		return d.debounce(ctx, debounce, out)
	})

	var race raceOpts
	cmd = set.AddCommand("race", "Races listeners on several nodes", "r")
	cmd.Flags().IntVar(&race.nodes, "nodes", 3, "Number of nodes in the race")
	cmd.Flags().IntVar(&race.winner, "winner", -1, "Index of the node that dispatches first, the last node by default")
	cmd.Does(func(ctx context.Context, _ *flag.FlagSet, out *cli.Printer) error {
		return d.race(ctx, race, out)
	})

	var depth int
	cmd = set.AddCommand("bubble", "Bubbles an event up a chain of child nodes", "b")
	cmd.Flags().IntVar(&depth, "depth", 3, "Number of nodes in the chain")
	cmd.Does(func(ctx context.Context, _ *flag.FlagSet, out *cli.Printer) error {
		return d.bubble(ctx, depth, out)
	})

	var guard guardOpts
	cmd = set.AddCommand("guard", "Contends for a node's busy state", "g")
	cmd.Flags().IntVar(&guard.workers, "workers", 3, "Number of concurrent guarded operations")
	cmd.Flags().DurationVar(&guard.hold, "hold", 20*time.Millisecond, "How long each operation holds the node")
	cmd.Does(func(ctx context.Context, _ *flag.FlagSet, out *cli.Printer) error {
		return d.guard(ctx, guard, out)
	})

	var wait waitOpts
	cmd = set.AddCommand("wait", "Waits for an event with a deadline", "w")
	cmd.Flags().DurationVar(&wait.timeout, "timeout", time.Second, "How long to wait")
	cmd.Flags().DurationVar(&wait.after, "after", 50*time.Millisecond, "When the awaited event is dispatched")
	cmd.Does(func(ctx context.Context, _ *flag.FlagSet, out *cli.Printer) error {
		return d.wait(ctx, wait, out)
	})
	return set
}

type atomicOpts struct {
	tasks, keys int
	delay       time.Duration
}

func (d *demo) atomic(ctx context.Context, opts atomicOpts, out *cli.Printer) error {
	tasks, keys, delay := opts.tasks, opts.keys, opts.delay
	if tasks < 1 || keys < 1 {
		return cli.NewUsageError("tasks and keys must be positive")
	}
	n := d.newNode("atomic")
	defer n.Destroy()

	var (
		mux     sync.Mutex
		ran     = map[string][]int{}
		futures = make([]*syncx.Future[int], tasks)
	)
	for i := range tasks {
		key := fmt.Sprintf("key-%d", i%keys)
		futures[i] = node.AtomicT(ctx, n, key, func(ctx context.Context) (int, error) {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return 0, context.Cause(ctx)
			}
			mux.Lock()
			ran[key] = append(ran[key], i)
			mux.Unlock()
			return i, nil
		})
	}
	for i, f := range futures {
		if _, err := f.Await(ctx); err != nil {
			return fmt.Errorf("task %d: %w", i, err)
		}
	}
	names := make([]string, 0, len(ran))
	for key := range ran {
		names = append(names, key)
	}
	slices.Sort(names)
	for _, key := range names {
		out.Printf("%s ran tasks %v\n", key, ran[key])
	}
	return nil
}

type debounceOpts struct {
	mode              string
	timeout, interval time.Duration
	events            int
}

func (d *demo) debounce(ctx context.Context, opts debounceOpts, out *cli.Printer) error {
	var (
		mode     = node.DebounceMode(opts.mode)
		timeout  = opts.timeout
		events   = opts.events
		interval = opts.interval
	)
	if events < 1 {
		return cli.NewUsageError("events must be positive")
	}
	n := d.newNode("debounce")
	defer n.Destroy()

	var (
		mux    sync.Mutex
		passed []any
		start  = time.Now()
	)
	_, err := n.ListenDebounce("input", func(evt dispatch.Event) {
		mux.Lock()
		defer mux.Unlock()
		passed = append(passed, evt.Payload)
		d.log.Info("Event passed", slog.Any("payload", evt.Payload), slog.Duration("elapsed", time.Since(start)))
	}, node.Mode(mode), node.Timeout(timeout))
	if err != nil {
		return cli.NewUsageError("%w", err)
	}
	for i := range events {
		if i > 0 && !sleep(ctx, interval) {
			return ctx.Err()
		}
		n.Dispatch("input", i)
	}
	if mode == node.ModeLast && !sleep(ctx, timeout+10*time.Millisecond) {
		return ctx.Err()
	}
	mux.Lock()
	defer mux.Unlock()
	out.Printf("%d of %d events passed: %v\n", len(passed), events, passed)
	return nil
}

type raceOpts struct {
	nodes, winner int
}

func (d *demo) race(ctx context.Context, opts raceOpts, out *cli.Printer) error {
	count, winner := opts.nodes, opts.winner
	if count < 1 {
		return cli.NewUsageError("nodes must be positive")
	}
	if winner < 0 {
		winner = count - 1
	}
	if winner >= count {
		return cli.NewUsageError("winner %d is out of range", winner)
	}
	nodes := make([]*node.Node, count)
	for i := range nodes {
		nodes[i] = d.newNode(fmt.Sprintf("racer-%d", i))
		defer nodes[i].Destroy()
	}

	calls := 0
	node.Race(nodes, "finish", func(evt dispatch.Event) {
		calls++
		out.Printf("%v won the race\n", evt.Payload)
	})
	nodes[winner].Dispatch("finish", nodes[winner].Name())
	for i, n := range nodes {
		if i != winner {
			n.Dispatch("finish", n.Name())
		}
	}
	out.Printf("race listener called %d time(s)\n", calls)
	return ctx.Err()
}

func (d *demo) bubble(ctx context.Context, depth int, out *cli.Printer) error {
	if depth < 2 {
		return cli.NewUsageError("depth must be at least 2")
	}
	root := d.newNode("root")
	defer root.Destroy()
	leaf := root
	for i := 1; i < depth; i++ {
		leaf = leaf.Child(fmt.Sprintf("n%d", i))
		leaf.EnableBubble("ping")
		defer leaf.Destroy()
	}

	received, err := func() (any, error) {
		result := make(chan error, 1)
		var payload any
		go func() {
			var err error
			payload, err = root.WaitFor(ctx, "ping")
			result <- err
		}()
		for len(root.Listeners("ping")) == 0 {
			if !sleep(ctx, time.Millisecond) {
				return nil, ctx.Err()
			}
		}
		leaf.Dispatch("ping", "from "+leaf.Name())
		err := <-result
		return payload, err
	}()
	if err != nil {
		return err
	}
	out.Printf("%s received %v\n", root.Name(), received)

	leaf.DisableBubble("ping")
	waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	go leaf.Dispatch("ping", "after disabling")
	if _, err := root.WaitFor(waitCtx, "ping"); err != nil {
		out.Printf("nothing bubbled after disabling: %v\n", err)
	}
	return nil
}

type guardOpts struct {
	workers int
	hold    time.Duration
}

func (d *demo) guard(ctx context.Context, opts guardOpts, out *cli.Printer) error {
	workers, hold := opts.workers, opts.hold
	if workers < 1 {
		return cli.NewUsageError("workers must be positive")
	}
	n := d.newNode("guard")
	defer n.Destroy()
	n.SetState("idle")

	var (
		wg   sync.WaitGroup
		mux  sync.Mutex
		errs []error
	)
	wg.Add(workers)
	for i := range workers {
		go func() {
			defer wg.Done()
			err := node.AtomicDo(ctx, n, func(ctx context.Context) error {
				out.Printf("worker %d entered, state is %v\n", i, n.State())
				if !sleep(ctx, hold) {
					return ctx.Err()
				}
				out.Printf("worker %d leaving\n", i)
				return nil
			})
			if err != nil {
				mux.Lock()
				errs = append(errs, err)
				mux.Unlock()
			}
		}()
	}
	wg.Wait()
	out.Printf("state restored to %v\n", n.State())
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

type waitOpts struct {
	timeout, after time.Duration
}

func (d *demo) wait(ctx context.Context, opts waitOpts, out *cli.Printer) error {
	timeout, after := opts.timeout, opts.after
	n := d.newNode("wait")
	defer n.Destroy()

	timer := time.AfterFunc(after, func() {
		n.Dispatch("ready", "not this one")
		n.Dispatch("ready", "ready")
	})
	defer timer.Stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	val, err := n.WaitFor(ctx, "ready", node.PayloadEquals("ready"))
	if err != nil {
		out.Printf("gave up waiting: %v\n", err)
		return nil
	}
	out.Printf("got %v\n", val)
	return nil
}

// sleep returns false if ctx is done first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
