package render

import (
	"bytes"
	"fmt"
)

const diagramCSS = `
    .node-box { fill: #ffffff; stroke: #cbd5e1; stroke-width: 1.5; }
    .node-header { fill: #eef2f7; }
    .node-title { font: 600 14px sans-serif; fill: #1e293b; }
    .node-app { font: 11px sans-serif; fill: #64748b; }
    .field-name { font: 12px monospace; fill: #334155; }
    .field-pk { font-weight: 700; }
    .field-type { font: 11px monospace; fill: #94a3b8; }
    .node-more { font: italic 11px sans-serif; fill: #94a3b8; }
    .edge { fill: none; stroke: #475569; stroke-width: 1.5; transition: stroke 0.15s ease, stroke-width 0.15s ease; }
    .edge.highlight { stroke: #2563eb; stroke-width: 2.5; }
    .edge.dimmed { stroke: #cbd5e1; }
    .node { cursor: grab; }
    .node.dragging { cursor: grabbing; }`

// diagramJS drives the embedded interaction: panning on the background,
// wheel zoom clamped to [0.3, 3.0], hover highlighting of a node's edges,
// and node dragging. Dragging translates the node group by the pointer
// delta and shifts its attached paths by half that delta (a self loop by
// the full delta); full re-routing needs a fresh document from the server.
const diagramJS = `
    const svg = document.currentScript.closest('svg') || document.documentElement;
    const viewport = svg.getElementById('viewport');
    let scale = 1, panX = 0, panY = 0;

    function applyTransform() {
      viewport.setAttribute('transform', 'translate(' + panX + ' ' + panY + ') scale(' + scale + ')');
    }
    function toDiagram(evt) {
      const pt = new DOMPoint(evt.clientX, evt.clientY).matrixTransform(svg.getScreenCTM().inverse());
      return { x: (pt.x - panX) / scale, y: (pt.y - panY) / scale };
    }

    svg.addEventListener('wheel', evt => {
      evt.preventDefault();
      const before = toDiagram(evt);
      scale = Math.min(3.0, Math.max(0.3, scale * (evt.deltaY < 0 ? 1.1 : 1 / 1.1)));
      const pt = new DOMPoint(evt.clientX, evt.clientY).matrixTransform(svg.getScreenCTM().inverse());
      panX = pt.x - before.x * scale;
      panY = pt.y - before.y * scale;
      applyTransform();
    }, { passive: false });

    let pan = null;
    svg.addEventListener('mousedown', evt => {
      if (evt.target.closest('.node')) return;
      pan = { x: evt.clientX, y: evt.clientY, panX, panY };
    });

    let drag = null;
    document.querySelectorAll('.node').forEach(node => {
      node.addEventListener('mousedown', evt => {
        const at = toDiagram(evt);
        const m = /translate\(([-\d.]+) ([-\d.]+)\)/.exec(node.getAttribute('transform'));
        drag = { node, key: node.dataset.key, baseX: +m[1], baseY: +m[2], at };
        edgesOf(drag.key).forEach(e => { e.dataset.baseD = e.getAttribute('d'); });
        node.classList.add('dragging');
        evt.stopPropagation();
      });
      node.addEventListener('mouseenter', () => highlightEdges(node.dataset.key, true));
      node.addEventListener('mouseleave', () => highlightEdges(node.dataset.key, false));
    });

    window.addEventListener('mousemove', evt => {
      if (drag) {
        const at = toDiagram(evt);
        const dx = at.x - drag.at.x, dy = at.y - drag.at.y;
        drag.node.setAttribute('transform', 'translate(' + (drag.baseX + dx) + ' ' + (drag.baseY + dy) + ')');
        shiftEdges(drag.key, dx, dy);
      } else if (pan) {
        panX = pan.panX + (evt.clientX - pan.x);
        panY = pan.panY + (evt.clientY - pan.y);
        applyTransform();
      }
    });
    window.addEventListener('mouseup', () => {
      if (drag) drag.node.classList.remove('dragging');
      drag = null;
      pan = null;
    });

    function edgesOf(key) {
      return document.querySelectorAll('.edge[data-source="' + CSS.escape(key) + '"], .edge[data-target="' + CSS.escape(key) + '"]');
    }
    function highlightEdges(key, on) {
      document.querySelectorAll('.edge').forEach(e => e.classList.toggle('dimmed', on));
      edgesOf(key).forEach(e => { e.classList.toggle('highlight', on); e.classList.remove('dimmed'); });
    }
    function shiftEdges(key, dx, dy) {
      edgesOf(key).forEach(e => {
        const half = e.dataset.source === e.dataset.target ? 1 : 0.5;
        e.setAttribute('d', e.dataset.baseD.replace(/([-\d.]+) ([-\d.]+)/g,
          (s, x, y) => (+x + dx * half) + ' ' + (+y + dy * half)));
      });
    }`

func renderInteraction(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", diagramCSS)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", diagramJS)
}
