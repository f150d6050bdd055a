// Package pkg provides the core libraries for terraclip contour clipping.
//
// # Overview
//
// Terraclip cuts elevation contour polylines against a rectangular region and
// stitches the cut ends along the rectangle boundary, so every output segment
// stays inside the region. The pkg directory is organized into three areas:
//
//  1. [domain] - Geometry and clipping (geom, contour, clip, export, source)
//  2. [infra] - Infrastructure (cache, store, errors, observability)
//  3. [pipeline] - Orchestration (load → filter → clip → encode)
//
// # Architecture
//
// The typical data flow:
//
//	GeoJSON contours
//	       ↓
//	source/geojson (parse features, detect elevation)
//	       ↓
//	contour.FilterByInterval (optional thinning)
//	       ↓
//	clip.Clip (boundary clipping + perimeter stitching)
//	       ↓
//	export (CSV / DXF / SVG)
//
// The pipeline package wires these stages together with caching and timing;
// internal/cli and the serve command are thin layers over it.
package pkg
