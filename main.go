// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package main

import (
	"image"
	"image/color"
	"log"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"

	"github.com/golCMKL/pong/apic"
	"github.com/golCMKL/pong/bootinfo"
	"github.com/golCMKL/pong/gdt"
	"github.com/golCMKL/pong/heap"
	"github.com/golCMKL/pong/irq"
	"github.com/golCMKL/pong/pmm"
	"github.com/golCMKL/pong/pong"
	"github.com/golCMKL/pong/screen"
	"github.com/golCMKL/pong/vmm"
)

func init() {
	log.SetFlags(0)
}

func main() {
	start := time.Now()

	log.Printf("%s/%s (%s) • pong", runtime.GOOS, runtime.GOARCH, runtime.Version())
	log.Print("starting kernel")

	info, err := bootinfo.Load(bootInfoAddr)

	if err != nil {
		log.Fatalf("could not load boot record, %v", err)
	}

	log.Printf("%s", info)

	for _, e := range info.E820() {
		log.Printf("%#016x - %#016x %s (%s)",
			e.Addr, e.Addr+e.Size-1, bootinfo.E820Label(e), humanize.IBytes(e.Size))
	}

	scr, err := screen.New(&info.Framebuffer)

	if err != nil {
		log.Fatalf("could not initialize screen, %v", err)
	}

	b := scr.Bounds()

	// reference pattern confirming the framebuffer geometry
	for i, c := range []color.RGBA{
		{R: 0xff, A: 0xff},
		{G: 0xff, A: 0xff},
		{B: 0xff, A: 0xff},
	} {
		y := b.Max.Y - 15 + i*5
		scr.Fill(image.Rect(0, y, b.Max.X, y+1), c)
	}

	// the frame allocator serves the region holding the runtime heap,
	// reserve everything up to the heap end
	usable, _ := info.LastUsable()
	_, ramEnd := runtime.MemRegion()

	var reserve uint64

	if ramEnd > usable.Start {
		reserve = ramEnd - usable.Start
	}

	frames, err := pmm.New(info.MemoryMap, reserve)

	if err != nil {
		log.Fatalf("could not create frame allocator, %v", err)
	}

	log.Printf("frame allocator %s", frames)

	pt := vmm.Active(info.PhysOffset)

	log.Printf("page table root %#08x (offset %#08x)", pt.Root(), pt.Offset())

	if err = pt.Probe(usable.Start); err != nil {
		log.Fatalf("could not probe offset mapping, %v", err)
	}

	log.Print("offset mapping ok")

	arena, err := heap.Init(info.MemoryMap)

	if err != nil {
		log.Fatalf("could not validate allocation arena, %v", err)
	}

	log.Printf("allocation arena %s", arena)

	x, y := new(int), new(int)
	*x, *y = 42, 24
	log.Printf("heap smoke %p %p x + y = %d", x, y, *x+*y)

	gdt.Init()
	log.Print("GDT and TSS installed")

	ctl, err := apic.Init(pt, info.RSDPAddr, frames.NextFrame)

	if err != nil {
		log.Fatalf("could not initialize interrupt controllers, %v", err)
	}

	log.Printf("interrupt controllers %s", ctl)

	game := pong.New(pong.Config{})
	game.Resize(b.Dx(), b.Dy())

	irq.NewHandlerTable().
		Startup(func() {
			log.Printf("kernel up in %s, serving interrupts",
				durafmt.Parse(time.Since(start)).LimitFirstN(2))
			game.Render(scr)
		}).
		Timer(func() {
			game.Tick(scr)
		}).
		Keyboard(func(r rune) {
			game.HandleKey(r, scr)
		}).
		Start(ctl)
}
