// Command machinesim wires a Tree, composite Engine, and protocol Manager
// together, sends one composite Method.Call through the manager, and
// satisfies its wait with a direct tree write, demonstrating the Accepted
// reply and the deferred-completion path.
package main

import (
	"flag"
	"fmt"

	"github.com/c360/machinemodel/composite"
	"github.com/c360/machinemodel/config"
	"github.com/c360/machinemodel/flow"
	"github.com/c360/machinemodel/protocol"
	"github.com/c360/machinemodel/tree"
	"github.com/c360/machinemodel/value"
)

func main() {
	logLevel := flag.String("log-level", "info", "debug|info|warn|error")
	logFormat := flag.String("log-format", "text", "json|text")
	flag.Parse()

	log := setupLogger(*logLevel, *logFormat)
	cfg := config.NewSafeConfig(config.Default())

	t := tree.New("plant", "demo plant model", log)

	line, err := t.NewFolder(t.Root(), "line1", "packaging line 1")
	if err != nil {
		log.Error("build tree", "err", err)
		return
	}

	lower, upper := 0.0, 100.0
	speed, err := t.NewNumericVariable(line, "speed", "belt speed", 0, value.NoUnit, &lower, &upper)
	if err != nil {
		log.Error("build tree", "err", err)
		return
	}
	ready, err := t.NewBooleanVariable(line, "ready", "line ready", false)
	if err != nil {
		log.Error("build tree", "err", err)
		return
	}

	graph := flow.NewGraph(
		flow.NewWriteStep("plant/line1/speed", flow.Literal(value.Number(10))),
		flow.NewWaitStep("plant/line1/ready", flow.OpEqual, flow.Literal(value.Bool(true))),
		flow.NewWriteStep("plant/line1/speed", flow.Literal(value.Number(0))),
	)
	startStop, err := t.NewCompositeMethod(line, "startStop", "ramp up then idle once ready", nil, nil, graph)
	if err != nil {
		log.Error("build tree", "err", err)
		return
	}

	engine := composite.New(t, log)
	manager := protocol.New(t, engine, "machinesim", cfg.Get().OutboundBufferCapacity, log)

	req := protocol.NewRequest("operator", "machinesim", protocol.NamespaceMethod, protocol.Call,
		protocol.CallRequest{Ref: tree.ByID(startStop.ID())})
	resp := manager.Handle(req)
	log.Info("call dispatched", "kind", resp.Kind, "body", fmt.Sprintf("%+v", resp.Body))

	v, err := t.Read(tree.ByID(speed.ID()))
	if err != nil {
		log.Error("read speed", "err", err)
	} else {
		n, _ := v.AsNumber()
		log.Info("speed after ramp-up", "value", n)
	}

	if _, err := t.Write(tree.ByID(ready.ID()), value.Bool(true)); err != nil {
		log.Error("write ready", "err", err)
	}

	for _, out := range manager.Outbound() {
		log.Info("outbound", "kind", out.Kind, "target", out.Target, "body", fmt.Sprintf("%+v", out.Body))
	}

	v, err = t.Read(tree.ByID(speed.ID()))
	if err != nil {
		log.Error("read speed", "err", err)
	} else {
		n, _ := v.AsNumber()
		log.Info("speed after ready", "value", n)
	}
}
