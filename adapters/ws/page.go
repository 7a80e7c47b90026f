package ws

// indexPage is the self-contained demo GUI: it renders the object's members
// from state frames, sends update frames on edit and method frames on
// button click.
const indexPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Live Object Editor</title>
<style>
  body { font-family: sans-serif; margin: 2em; background: #f4f4f4; }
  h1 { font-size: 1.2em; }
  table { border-collapse: collapse; background: #fff; }
  td, th { border: 1px solid #ccc; padding: .4em .8em; text-align: left; }
  input { width: 12em; }
  #status { margin: 1em 0; color: #666; }
  #log { font-family: monospace; font-size: .85em; color: #444; white-space: pre-line; }
</style>
</head>
<body>
<h1 id="title">Live Object Editor</h1>
<div id="status">connecting…</div>
<table>
  <thead><tr><th>member</th><th>type</th><th>value</th><th></th></tr></thead>
  <tbody id="members"></tbody>
</table>
<div id="log"></div>
<script>
const ws = new WebSocket("ws://" + location.host + "/ws");
const status = document.getElementById("status");
const log = document.getElementById("log");

ws.onopen = () => { status.textContent = "connected"; };
ws.onclose = () => { status.textContent = "disconnected"; };
ws.onmessage = (ev) => {
  const msg = JSON.parse(ev.data);
  if (msg.type === "state") render(msg);
  else if (msg.type === "error") append("error: " + msg.message);
  else if (msg.type === "method_success") append("called " + msg.method);
};

function append(line) { log.textContent = line + "\n" + log.textContent; }

function render(state) {
  document.getElementById("title").textContent = state.className;
  const tbody = document.getElementById("members");
  tbody.innerHTML = "";
  for (const [name, m] of Object.entries(state.members)) {
    const tr = document.createElement("tr");
    const input = document.createElement("input");
    input.value = m.value === null ? "" : m.value;
    const btn = document.createElement("button");
    btn.textContent = "set";
    btn.onclick = () => ws.send(JSON.stringify({type: "update", field: name, value: input.value}));
    tr.innerHTML = "<td>" + name + "</td><td>" + m.type + "</td>";
    const tdIn = document.createElement("td"); tdIn.appendChild(input);
    const tdBtn = document.createElement("td"); tdBtn.appendChild(btn);
    tr.appendChild(tdIn);
    tr.appendChild(tdBtn);
    tbody.appendChild(tr);
  }
}
</script>
</body>
</html>
`
