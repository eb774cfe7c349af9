package surface

// pageHTML is the player page. The script keeps at most one iframe in the
// stage: any existing player is removed before a new one is inserted.
const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>capframe</title>
<style>
  html, body { margin: 0; padding: 0; background: #000; height: 100%; overflow: hidden; }
  #stage { position: relative; overflow: hidden; background: #000; width: 100vw; height: 100vh;
           container-type: size; }
  #stage.maximized, :fullscreen #stage { width: 100vw !important; height: 100vh !important; }
  #stage iframe { border: 0; display: block; }
  #stage.scale-fit iframe { width: 100%; height: 100%; }
  #stage.scale-fill iframe { position: absolute; left: 50%; top: 50%; transform: translate(-50%, -50%);
                             width: max(100cqw, calc(100cqh * 16 / 9)); height: max(100cqh, calc(100cqw * 9 / 16)); }
  #stage.scale-stretch iframe { position: absolute; left: 0; top: 0; width: 1600px; height: 900px;
                                transform-origin: 0 0; }
  #status { position: absolute; left: 0; right: 0; top: 45%; text-align: center; color: #666;
            font: 14px sans-serif; }
</style>
</head>
<body>
<div id="stage" class="{{.StageClass}}"{{if .Sized}} style="width: {{.Width}}px; height: {{.Height}}px"{{end}}>
{{- if .EmbedURL}}
  <iframe src="{{.EmbedURL}}" title="{{.Title}}" data-surface-id="{{.SurfaceID}}"
          allow="autoplay; fullscreen; encrypted-media; picture-in-picture" allowfullscreen></iframe>
{{- else}}
  <div id="status">No stream</div>
{{- end}}
</div>
<script>
(function () {
  "use strict";
  var stage = document.getElementById("stage");
  var seq = 0;
  var layout = null;
  var sock = null;
  var retry = 500;

  function clearStage() {
    while (stage.firstChild) { stage.removeChild(stage.firstChild); }
  }

  function showStatus(text) {
    clearStage();
    var el = document.createElement("div");
    el.id = "status";
    el.textContent = text;
    stage.appendChild(el);
  }

  function attach(msg) {
    var existing = stage.querySelector("iframe");
    if (existing && existing.dataset.surfaceId === msg.surface_id) { return; }
    clearStage();
    var frame = document.createElement("iframe");
    frame.src = msg.embed_url;
    frame.title = msg.title;
    frame.dataset.surfaceId = msg.surface_id;
    frame.setAttribute("allow", "autoplay; fullscreen; encrypted-media; picture-in-picture");
    frame.setAttribute("allowfullscreen", "");
    stage.appendChild(frame);
    applyScale();
  }

  function detach(msg) {
    var existing = stage.querySelector("iframe");
    if (existing && existing.dataset.surfaceId !== msg.surface_id) { return; }
    showStatus("No stream");
  }

  function applyScale() {
    var frame = stage.querySelector("iframe");
    if (!frame) { return; }
    if (stage.classList.contains("scale-stretch")) {
      frame.style.transform = "scale(" + (stage.clientWidth / 1600) + "," + (stage.clientHeight / 900) + ")";
    } else {
      frame.style.transform = "";
    }
  }

  function applyLayout(l) {
    layout = l;
    seq = l.seq;
    stage.className = "scale-" + (l.scale || "fit") + (l.maximized ? " maximized" : "");
    if (l.width > 0 && l.height > 0 && !l.maximized) {
      stage.style.width = l.width + "px";
      stage.style.height = l.height + "px";
    } else {
      stage.style.width = "";
      stage.style.height = "";
    }
    var full = !!document.fullscreenElement;
    var pending = null;
    if (l.fullscreen && !full && document.documentElement.requestFullscreen) {
      pending = document.documentElement.requestFullscreen();
    } else if (!l.fullscreen && full && document.exitFullscreen) {
      pending = document.exitFullscreen();
    }
    applyScale();
    if (pending) {
      pending.catch(function () {}).then(report);
    } else {
      report();
    }
  }

  function report() {
    applyScale();
    if (!sock || sock.readyState !== WebSocket.OPEN) { return; }
    sock.send(JSON.stringify({
      type: "host_state",
      seq: seq,
      width: stage.clientWidth,
      height: stage.clientHeight,
      maximized: stage.classList.contains("maximized"),
      fullscreen: !!document.fullscreenElement
    }));
  }

  function connect() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    sock = new WebSocket(proto + location.host + "/ws");
    sock.onopen = function () { retry = 500; };
    sock.onmessage = function (ev) {
      var msg;
      try { msg = JSON.parse(ev.data); } catch (e) { return; }
      if (msg.type === "attach") { attach(msg); }
      else if (msg.type === "detach") { detach(msg); }
      else if (msg.type === "layout") { applyLayout(msg.layout); }
    };
    sock.onclose = function () {
      setTimeout(connect, retry);
      retry = Math.min(retry * 2, 10000);
    };
  }

  document.addEventListener("fullscreenchange", report);
  window.addEventListener("resize", function () { if (layout) { report(); } });
  connect();
})();
</script>
</body>
</html>
`
