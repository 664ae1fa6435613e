package block_test

import (
	"testing"

	"github.com/traceq/traceq/block"
	"github.com/traceq/traceq/core"
)

// benchmarkCutToWindows granulates n agents with m blocks each.
func benchmarkCutToWindows(b *testing.B, n, m int) {
	agents := make([]*block.Agent, n)
	for a := 0; a < n; a++ {
		blocks := make([]block.SingleBlock, m)
		for i := 0; i < m; i++ {
			speed := core.SpeedWalk
			if i%2 == 0 {
				speed = core.SpeedStand
			}
			// Stagger agents by their index to force edge misalignment.
			from := float64(i*10 + a)
			blocks[i] = block.SingleBlock{
				Start: at(from), End: at(from + 10),
				Speed: speed, Direction: core.DirectionStraight,
			}
		}
		agents[a] = block.NewAgent(a+1, blocks)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		windows, err := block.CutToWindows(agents, nil, block.DefaultWindowOptions())
		if err != nil {
			b.Fatalf("CutToWindows failed: %v", err)
		}
		if len(windows) == 0 {
			b.Fatal("expected windows")
		}
	}
}

// BenchmarkCutToWindows_TwoAgents benchmarks the common pairwise case.
func BenchmarkCutToWindows_TwoAgents(b *testing.B) {
	benchmarkCutToWindows(b, 2, 60)
}

// BenchmarkCutToWindows_FiveAgents benchmarks a wider interleave.
func BenchmarkCutToWindows_FiveAgents(b *testing.B) {
	benchmarkCutToWindows(b, 5, 60)
}
