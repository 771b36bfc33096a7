package display

// pageTemplate is the html/template for the stats board.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>
    body { font-family: system-ui, sans-serif; background: #0f172a; color: #e2e8f0; margin: 0; }
    header { display: flex; justify-content: space-between; align-items: center; padding: 1rem 2rem; }
    header nav a { color: #22d3ee; margin-left: 1rem; text-decoration: none; }
    #mobile-menu-button { display: none; background: none; border: 0; color: inherit; font-size: 1.5rem; }
    #mobile-menu.hidden { display: none; }
    @media (max-width: 640px) {
      header nav { display: none; }
      #mobile-menu-button { display: block; }
    }
    main { max-width: 960px; margin: 0 auto; padding: 0 2rem; }
    .cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(220px, 1fr)); gap: 1rem; }
    .card { background: #1e293b; border-radius: 0.75rem; padding: 1rem 1.25rem; }
    .card h2 { margin-top: 0; text-transform: capitalize; }
    .card dl { display: grid; grid-template-columns: 1fr auto; gap: 0.25rem 1rem; margin: 0; }
    .card dd { margin: 0; font-weight: 600; color: #22d3ee; }
    .card .reason { color: #f87171; font-size: 0.85rem; }
    footer { text-align: center; padding: 2rem; color: #64748b; }
  </style>
</head>
<body>
  <header>
    <a href="#home">{{.Title}}</a>
    <nav>
      <a href="#home">Home</a>
      <a href="#stats">Stats</a>
    </nav>
    <button id="mobile-menu-button" aria-label="Toggle menu">&#9776;</button>
  </header>
  <div id="mobile-menu" class="hidden">
    <a href="#home">Home</a>
    <a href="#stats">Stats</a>
  </div>
  <main>
    <section id="home">{{.IntroHTML}}</section>
    <section id="stats" class="cards">
      {{range .Sources}}
      <div class="card" id="{{.Name}}">
        <h2>{{.Name}}</h2>
        <dl>
          {{range .Slots}}<dt>{{.Category}}</dt><dd id="{{.ID}}">{{.Value}}</dd>
          {{end}}
        </dl>
        <p class="reason" id="{{.Name}}-reason">{{if and (not .OK) (not .Pending)}}{{.Reason}}{{end}}</p>
      </div>
      {{end}}
    </section>
  </main>
  <footer>&copy; <span id="current-year">{{.Year}}</span></footer>
  <script>
    document.getElementById("mobile-menu-button").addEventListener("click", () => {
      document.getElementById("mobile-menu").classList.toggle("hidden");
    });
    {{if .LivePath}}
    (function connect() {
      const proto = location.protocol === "https:" ? "wss://" : "ws://";
      const ws = new WebSocket(proto + location.host + {{.LivePath}});
      ws.onmessage = (ev) => {
        const msg = JSON.parse(ev.data);
        (msg.slots || []).forEach((s) => {
          const el = document.getElementById(s.source + "-" + s.category);
          if (el) el.textContent = s.value;
        });
        const reason = document.getElementById(msg.source + "-reason");
        if (reason) reason.textContent = msg.ok ? "" : (msg.reason || "");
      };
      ws.onclose = () => setTimeout(connect, 5000);
    })();
    {{end}}
  </script>
</body>
</html>`
