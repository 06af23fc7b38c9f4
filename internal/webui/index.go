package webui

const defaultIndexHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>The BriteCo Brief</title>
  <style>
    body { font-family: "Segoe UI", sans-serif; margin: 0; background: linear-gradient(145deg,#f7fafc,#e6f4f4); color: #1f2937; }
    .wrap { max-width: 1100px; margin: 0 auto; padding: 20px; }
    .panel { background: #fff; border-radius: 12px; box-shadow: 0 8px 30px rgba(15,23,42,.08); padding: 16px; margin-bottom: 16px; }
    h2 { color: #037E7F; margin-top: 0; }
    .section { border: 1px solid #d1d5db; border-radius: 8px; padding: 12px; margin-bottom: 10px; background: #f9fafb; }
    .section h3 { margin: 0 0 6px; font-size: 15px; }
    .section .meta { color: #6b7280; font-size: 12px; margin-bottom: 8px; }
    .section pre { white-space: pre-wrap; font-family: inherit; margin: 8px 0 0; }
    .row { display: flex; gap: 8px; margin-top: 10px; flex-wrap: wrap; }
    input, textarea { flex: 1; padding: 10px; border: 1px solid #cbd5e1; border-radius: 8px; }
    button { padding: 8px 14px; border: 0; border-radius: 8px; background: #037E7F; color: #fff; cursor: pointer; }
    button:hover { background: #0d9488; }
    button.accent { background: #FE8916; }
    .issue { color: #b45309; font-size: 13px; margin-top: 6px; }
    .err { color: #b91c1c; font-size: 13px; margin-top: 6px; }
  </style>
</head>
<body>
  <div class="wrap">
    <div class="panel">
      <h2>The BriteCo Brief</h2>
      <div class="row">
        <input id="month" placeholder="Issue month, e.g. September 2026" />
        <button id="research">Fetch Research</button>
        <button id="assemble">Assemble Issue</button>
        <button id="brandcheck" class="accent">Brand Check</button>
        <button id="preview">Send Preview</button>
        <button id="distribute">Send to Ontraport</button>
      </div>
      <div id="status" class="issue"></div>
    </div>
    <div class="panel" id="sections"></div>
  </div>
  <script>
    // Research and drafts are keyed by canonical section id so that
    // swapping an item in one section never disturbs another.
    const selected = {};
    let issueId = '';
    const statusEl = document.getElementById('status');
    const sectionsEl = document.getElementById('sections');
    const note = (text) => { statusEl.textContent = text; };

    async function api(path, body) {
      const resp = await fetch(path, body === undefined
        ? undefined
        : { method: 'POST', headers: { 'Content-Type': 'application/json' }, body: JSON.stringify(body) });
      return resp.json();
    }

    async function loadSections() {
      const data = await api('/api/sections');
      if (!data.success) { note(data.error); return; }
      sectionsEl.innerHTML = '';
      for (const s of data.sections) {
        const div = document.createElement('div');
        div.className = 'section';
        div.id = 'sec-' + s.id;
        div.innerHTML = '<h3>' + s.name + '</h3>' +
          '<div class="meta">' + s.min_words + '-' + s.max_words + ' words, ' + s.format +
          (s.requires_citation ? ', citations required' : '') +
          (s.image_eligible ? ', image eligible' : '') + '</div><pre></pre><div class="err"></div>';
        sectionsEl.appendChild(div);
      }
    }

    document.getElementById('research').addEventListener('click', async () => {
      note('Fetching research...');
      const roundup = await api('/api/research/roundup', {});
      if (roundup.success) selected.news_roundup = roundup.items;
      const claims = await api('/api/research/claims', {});
      if (claims.success) selected.curious_claims = claims.claims;
      const tips = await api('/api/research/agent-tips', {});
      if (tips.success) selected.agent_advantage = tips.tips;
      note('Research ready for ' + Object.keys(selected).length + ' sections.');
    });

    document.getElementById('assemble').addEventListener('click', async () => {
      note('Assembling issue...');
      const month = document.getElementById('month').value.trim();
      const data = await api('/api/assemble', { research: selected, hints: { month } });
      if (!data.success) { note(data.error); return; }
      issueId = data.issue.id;
      for (const [id, draft] of Object.entries(data.issue.sections || {})) {
        const div = document.getElementById('sec-' + id);
        if (div) div.querySelector('pre').textContent = draft.text;
      }
      for (const [id, msg] of Object.entries(data.issue.failures || {})) {
        const div = document.getElementById('sec-' + id);
        if (div) div.querySelector('.err').textContent = msg;
      }
      note('Issue ' + issueId + ' assembled.');
    });

    document.getElementById('brandcheck').addEventListener('click', async () => {
      if (!issueId) { note('Assemble an issue first.'); return; }
      const data = await api('/api/brand-check', { issue_id: issueId });
      if (!data.success) { note(data.error); return; }
      note(data.count + ' advisory issue(s).');
      for (const div of sectionsEl.querySelectorAll('.err')) div.textContent = '';
      for (const issue of data.issues) {
        const div = document.getElementById('sec-' + issue.section_id);
        if (div) div.querySelector('.err').textContent += issue.kind + ': ' + issue.suggestion + '\n';
      }
    });

    document.getElementById('preview').addEventListener('click', async () => {
      if (!issueId) { note('Assemble an issue first.'); return; }
      const data = await api('/api/send-preview', { issue_id: issueId });
      note(data.success ? 'Preview sent to ' + data.result.sent.length + ' recipient(s).' : data.error);
    });

    document.getElementById('distribute').addEventListener('click', async () => {
      if (!issueId) { note('Assemble an issue first.'); return; }
      const data = await api('/api/send-to-ontraport', { issue_id: issueId });
      note(data.success ? data.receipt.message : data.error);
    });

    loadSections();
  </script>
</body>
</html>`
