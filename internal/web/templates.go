package web

import (
	"html/template"

	"regsync/internal/registry"
)

// indexData feeds the single-page template.
type indexData struct {
	RecordCount  int64
	PreviewLimit int
	Runs         []registry.Run
}

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html lang="zh-Hant">
<head>
<meta charset="utf-8">
<title>商業登記資料同步</title>
<style>
  body { font-family: sans-serif; max-width: 64rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
  h1 { font-size: 1.4rem; }
  button, a.button { padding: .5rem 1rem; margin-right: .5rem; cursor: pointer;
    border: 1px solid #888; border-radius: 4px; background: #f5f5f5; color: #222; text-decoration: none; }
  button:disabled { opacity: .5; cursor: wait; }
  #outcome { margin: 1rem 0; font-weight: bold; }
  #outcome.failed { color: #b00020; }
  table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
  th, td { border: 1px solid #ccc; padding: .3rem .5rem; text-align: left; font-size: .9rem; }
  .muted { color: #777; font-size: .85rem; }
</style>
</head>
<body>
<h1>商業登記資料同步</h1>
<p class="muted">records stored: {{.RecordCount}}</p>

<p>
  <button id="sync-btn">同步資料</button>
  <button id="preview-btn">預覽資料 (前 {{.PreviewLimit}} 筆)</button>
  <a class="button" href="/api/export">下載 CSV</a>
</p>

<div id="outcome"></div>
<div id="preview" hidden>
  <table>
    <thead>
      <tr><th>統一編號</th><th>名稱</th><th>負責人</th><th>電話</th><th>地址</th><th>電子郵件</th><th>更新時間</th></tr>
    </thead>
    <tbody id="preview-body"></tbody>
  </table>
</div>

{{if .Runs}}
<h2 class="muted">recent syncs</h2>
<table>
  <thead><tr><th>time</th><th>status</th><th>processed</th><th>skipped</th><th>detail</th></tr></thead>
  <tbody>
  {{range .Runs}}
    <tr><td>{{.StartedAt}}</td><td>{{.Status}}</td><td>{{.Processed}}</td><td>{{.Skipped}}</td><td>{{.Detail}}</td></tr>
  {{end}}
  </tbody>
</table>
{{end}}

<script>
const outcome = document.getElementById("outcome");

document.getElementById("sync-btn").addEventListener("click", async (e) => {
  const btn = e.target;
  btn.disabled = true;
  outcome.textContent = "syncing...";
  outcome.className = "";
  try {
    const res = await fetch("/api/sync", { method: "POST" });
    const body = await res.json();
    outcome.textContent = body.message;
    if (body.status !== "succeeded") outcome.className = "failed";
  } catch (err) {
    outcome.textContent = "request failed: " + err;
    outcome.className = "failed";
  } finally {
    btn.disabled = false;
  }
});

document.getElementById("preview-btn").addEventListener("click", async () => {
  const panel = document.getElementById("preview");
  if (!panel.hidden) { panel.hidden = true; return; }
  const res = await fetch("/api/preview");
  const body = await res.json();
  const tbody = document.getElementById("preview-body");
  tbody.innerHTML = "";
  for (const rec of body.records) {
    const tr = document.createElement("tr");
    for (const v of [rec.id, rec.name, rec.owner, rec.phone, rec.address, rec.email, rec.lastUpdated]) {
      const td = document.createElement("td");
      td.textContent = v;
      tr.appendChild(td);
    }
    tbody.appendChild(tr);
  }
  if (body.records.length === 0) {
    outcome.textContent = body.message || "no data yet";
  }
  panel.hidden = false;
});
</script>
</body>
</html>
`
