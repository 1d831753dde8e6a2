package server

// indexHTML is the landing page. The diagram is embedded as an object so
// the SVG's own pan/zoom/drag script stays active.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Schemascope</title>
<style>
  html, body { margin: 0; height: 100%; background: #f8fafc; font-family: system-ui, sans-serif; }
  header { padding: 12px 20px; background: #1e293b; color: #f1f5f9; }
  header h1 { margin: 0; font-size: 16px; font-weight: 600; }
  header a { color: #94a3b8; font-size: 13px; text-decoration: none; margin-left: 16px; }
  main { height: calc(100% - 41px); }
  object { width: 100%; height: 100%; display: block; }
</style>
</head>
<body>
<header>
  <h1>Schemascope
    <a href="/api/schema/">schema JSON</a>
    <a href="/api/diagram.svg">raw SVG</a>
  </h1>
</header>
<main>
  <object type="image/svg+xml" data="/api/diagram.svg" aria-label="Database schema diagram"></object>
</main>
</body>
</html>
`
