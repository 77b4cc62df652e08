package console

import "html/template"

var systemLoadTmpl = template.Must(template.New("system-load").Parse(`
<div style="font-size: 0.8rem; line-height: 1.4;">
    <div><strong>CPU:</strong> {{.CPU}}%</div>
    <div><strong>RAM:</strong> {{.RAMUsed}}/{{.RAMTotal}} GB</div>
    <div><strong>DSK:</strong> {{.DiskUsed}}/{{.DiskTotal}} GB</div>
</div>`))

var customersTmpl = template.Must(template.New("customers").Parse(`{{range .}}
<tr>
    <td>
        <div style="font-weight: 500">{{.Email}}</div>
        <div style="font-size: 0.8em; color: var(--text-muted)">HASH: {{.Hash}}...</div>
    </td>
    <td><span class="badge {{.Tier}}">{{.Tier}}</span></td>
    <td><span class="status-dot {{if .Active}}active{{else}}inactive{{end}}"></span> {{if .Active}}Active{{else}}Inactive{{end}}</td>
    <td>
        <div class="usage-bar-wrapper">
            <div class="text">{{.Usage}} / {{.Limit}}</div>
            <div class="bar-bg">
                <div class="bar-fill" style="width: {{.Width}}%"></div>
            </div>
        </div>
    </td>
    <td>{{.CreatedAt}}</td>
    <td>
        <div class="actions">
            <button class="btn small danger" data-action="deactivate" data-email="{{.Email}}" title="Disattiva"{{if not .Active}} disabled{{end}}>🛑</button>
            <button class="btn small primary" data-action="rotate-key" data-email="{{.Email}}" title="{{if .Active}}Invia nuova chiave{{else}}Utente non attivo{{end}}"{{if not .Active}} disabled{{end}}>📧</button>
            <button class="btn small danger" data-action="delete-customer" data-email="{{.Email}}" title="Elimina definitivamente">🗑️</button>
        </div>
    </td>
</tr>{{end}}`))

var testKeysTmpl = template.Must(template.New("test-keys").Parse(`{{range .}}
<tr>
    <td>{{.Email}}</td>
    <td>{{.Tier}}</td>
    <td>{{.Note}}</td>
    <td>{{.CreatedAt}}</td>
    <td>
        <button class="btn small danger" data-action="delete-test-key" data-email="{{.Email}}">Delete</button>
    </td>
</tr>{{end}}`))

// Единственная строка пустого журнала
const emptyAuditRow = `<tr><td colspan="4" class="empty">No audit logs found.</td></tr>`

var auditTmpl = template.Must(template.New("audit").Parse(`{{range .}}
<tr>
    <td class="timestamp">{{.Time}}</td>
    <td><strong>{{.Action}}</strong></td>
    <td>{{.Details}}</td>
    <td><span class="badge {{.Badge}}">{{.Status}}</span></td>
</tr>{{end}}`))

var capacityTmpl = template.Must(template.New("capacity").Parse(`{{range .}}
<div class="metric-row">
    <span>{{.Name}}</span>
    <strong>{{.Current}} / {{.Limit}}</strong>
</div>{{end}}`))
