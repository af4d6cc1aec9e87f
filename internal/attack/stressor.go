package attack

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/assailsec/assail/internal/model"
)

// intensityFactor scales a stressor's worker count or payload size. It is
// deliberately coarse — the core makes no tuning claims about how hard
// "heavy" actually leans on a given host.
func intensityFactor(i model.Intensity) int {
	switch i {
	case model.IntensityLight:
		return 1
	case model.IntensityMedium:
		return 2
	case model.IntensityHeavy:
		return 4
	case model.IntensityExtreme:
		return 8
	default:
		return 1
	}
}

// funcStressor adapts a plain Apply closure to the Stressor interface, the
// same shape every DefaultStressors entry below uses.
type funcStressor struct {
	axis  model.AttackAxis
	apply func(ctx context.Context, intensity model.Intensity) (func(), error)
}

func (f funcStressor) Axis() model.AttackAxis { return f.axis }
func (f funcStressor) Apply(ctx context.Context, intensity model.Intensity) (func(), error) {
	return f.apply(ctx, intensity)
}

// DefaultStressors returns the in-process stressor registry NewOrchestrator
// seeds itself with. Every stressor recovers its own panics so a broken
// stressor degrades the attack rather than crashing the orchestrator's own
// process (§5's isolation guarantee).
func DefaultStressors() []Stressor {
	return []Stressor{
		funcStressor{axis: model.AxisCPU, apply: applyCPU},
		funcStressor{axis: model.AxisMemory, apply: applyMemory},
		funcStressor{axis: model.AxisDisk, apply: applyDisk},
		funcStressor{axis: model.AxisNetwork, apply: applyNetwork},
		funcStressor{axis: model.AxisConcurrency, apply: applyConcurrency},
		funcStressor{axis: model.AxisTime, apply: applyTime},
	}
}

func applyCPU(ctx context.Context, intensity model.Intensity) (func(), error) {
	workers := intensityFactor(intensity) * runtime.NumCPU()
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer recoverStressor("cpu")
			for {
				select {
				case <-ctx.Done():
					return
				default:
					busyWork()
				}
			}
		}()
	}
	return func() { wg.Wait() }, nil
}

// busyWork burns a slice of CPU time without ever blocking, so the
// scheduler can still preempt it at the next safe point.
func busyWork() {
	x := 0
	for i := 0; i < 1_000_000; i++ {
		x += i * i
	}
	_ = x
}

func applyMemory(ctx context.Context, intensity model.Intensity) (func(), error) {
	chunks := intensityFactor(intensity) * 4
	const chunkBytes = 8 * 1024 * 1024

	done := make(chan struct{})
	var held [][]byte
	var mu sync.Mutex

	go func() {
		defer recoverStressor("memory")
		for i := 0; i < chunks; i++ {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			default:
			}
			buf := make([]byte, chunkBytes)
			for j := range buf {
				buf[j] = byte(j) // touch pages so the OS actually commits them
			}
			mu.Lock()
			held = append(held, buf)
			mu.Unlock()
			time.Sleep(10 * time.Millisecond)
		}
	}()

	return func() {
		close(done)
		mu.Lock()
		held = nil
		mu.Unlock()
	}, nil
}

func applyDisk(ctx context.Context, intensity model.Intensity) (func(), error) {
	dir, err := os.MkdirTemp("", "assail-disk-stressor-*")
	if err != nil {
		return nil, fmt.Errorf("attack: disk stressor workdir: %w", err)
	}

	workers := intensityFactor(intensity)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			defer recoverStressor("disk")
			payload := make([]byte, 1024*1024)
			path := filepath.Join(dir, fmt.Sprintf("churn-%d.bin", n))
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}
				_ = os.WriteFile(path, payload, 0o600)
			}
		}(i)
	}

	return func() {
		wg.Wait()
		os.RemoveAll(dir)
	}, nil
}

func applyNetwork(ctx context.Context, intensity model.Intensity) (func(), error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("attack: network stressor listener: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer recoverStressor("network-accept")
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer recoverStressor("network-conn")
				conn.Close()
			}()
		}
	}()

	workers := intensityFactor(intensity)
	var dialers sync.WaitGroup
	for i := 0; i < workers; i++ {
		dialers.Add(1)
		go func() {
			defer dialers.Done()
			defer recoverStressor("network-dial")
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}
				conn, err := net.DialTimeout("tcp", ln.Addr().String(), 50*time.Millisecond)
				if err == nil {
					conn.Close()
				}
			}
		}()
	}

	return func() {
		dialers.Wait()
		ln.Close()
		wg.Wait()
	}, nil
}

func applyConcurrency(ctx context.Context, intensity model.Intensity) (func(), error) {
	workers := intensityFactor(intensity) * 8
	var mu sync.Mutex
	shared := 0

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer recoverStressor("concurrency")
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}
				mu.Lock()
				shared++
				mu.Unlock()
				runtime.Gosched()
			}
		}()
	}
	return func() { wg.Wait() }, nil
}

func applyTime(ctx context.Context, intensity model.Intensity) (func(), error) {
	workers := intensityFactor(intensity)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer recoverStressor("time")
			for {
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Duration(rand.Intn(20)) * time.Millisecond):
					runtime.Gosched()
				}
			}
		}()
	}
	return func() { wg.Wait() }, nil
}

func recoverStressor(name string) {
	// A stressor panicking must never reach the orchestrator's own
	// goroutine; swallow it here rather than letting it crash the run.
	recover()
	_ = name
}
