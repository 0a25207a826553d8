// Package bitcube searches for perfect 8x8x8 bit cubes.
//
// A perfect cube holds 256 set bits arranged so that each of its 192
// axis-aligned lines of eight bits contains exactly four ones, and its 64
// rows are 64 distinct byte values.
//
// # Features
//
//   - Balanced-number domain: the 70 bytes with four set bits, their
//     complements and rotation orbits
//   - Layer generation with complement closure and column balance
//   - Layer assembly with an exact-match lookup for the fourth layer
//   - Orbit stacking over a filtered pool of rotation orbits
//   - Independent verification of every discovered cube
//
// # Quick Start
//
// Search the filtered orbit pool for the first cube:
//
//	d := bitcube.NewDomain()
//	res, err := bitcube.SearchOrbits(context.Background(), d.Filtered(),
//	    bitcube.WithThreads(runtime.NumCPU()))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	c, err := res.Cube()
//	if errors.Is(err, bitcube.ErrNoDiscovery) {
//	    fmt.Println("no cube found")
//	}
//
// # Layer Assembly
//
// Generate layers from a restricted candidate pool and stack them:
//
//	layers := bitcube.GenerateLayers(d, bitcube.WithCandidateLimit(8))
//	res, err := bitcube.AssembleLayers(ctx, layers,
//	    bitcube.WithFindAll(true),
//	    bitcube.WithSink(mySink))
//
// Every discovery is verified line by line before it reaches the sink. A
// cube that fails verification is still delivered, with its Report
// describing the failures.
package bitcube
